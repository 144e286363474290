package mysql

import (
	"context"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create 用户名重复时返回 repository.ErrDuplicate
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.DB.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var list []model.User
	err := r.DB.WithContext(ctx).Order("username ASC, id ASC").Find(&list).Error
	return list, translate(err)
}

// Delete 级联删除：用户的成员关系、报名、评论；其帖子（含评论）、
// 其组织的活动（含报名）、其管理的社团（按 ClubRepository.Delete 规则），最后删用户
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.ClubMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.EventAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		posts := tx.Model(&model.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?)", posts).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}

		events := tx.Model(&model.Event{}).Select("id").Where("organizer_id = ?", id)
		if err := tx.Where("event_id IN (?)", events).Delete(&model.EventAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organizer_id = ?", id).Delete(&model.Event{}).Error; err != nil {
			return err
		}

		var clubIDs []uint64
		if err := tx.Model(&model.Club{}).Where("admin_id = ?", id).Pluck("id", &clubIDs).Error; err != nil {
			return err
		}
		for _, clubID := range clubIDs {
			if err := deleteClub(tx, clubID); err != nil {
				return err
			}
		}

		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
