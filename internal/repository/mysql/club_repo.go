package mysql

import (
	"context"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClubRepository struct {
	DB *gorm.DB
}

func NewClubRepository(db *gorm.DB) *ClubRepository {
	return &ClubRepository{DB: db}
}

// Create 建社团并写 outbox，同一事务
func (r *ClubRepository) Create(ctx context.Context, club *model.Club) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(club).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.ActivityClubCreated, club.ID, club.AdminID, map[string]any{
			"name": club.Name,
		})
	}))
}

// FindByID 只查社团本身
func (r *ClubRepository) FindByID(ctx context.Context, id uint64) (*model.Club, error) {
	var club model.Club
	if err := r.DB.WithContext(ctx).First(&club, id).Error; err != nil {
		return nil, translate(err)
	}
	return &club, nil
}

// FindDetail 社团详情：管理员、成员（按加入时间）、活动（按时间）
func (r *ClubRepository) FindDetail(ctx context.Context, id uint64) (*model.Club, error) {
	var club model.Club
	err := r.DB.WithContext(ctx).
		Preload("Admin").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC, id ASC")
		}).
		Preload("Members.User").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("date_time ASC, id ASC")
		}).
		Preload("Events.Organizer").
		First(&club, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &club, nil
}

func (r *ClubRepository) List(ctx context.Context) ([]model.Club, error) {
	var list []model.Club
	db := r.DB.WithContext(ctx)
	if err := db.Preload("Admin").Order("name ASC, id ASC").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, r.fillCounts(db, list)
}

// ListByUser 用户作为管理员或成员的社团
func (r *ClubRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Club, error) {
	var list []model.Club
	db := r.DB.WithContext(ctx)
	member := db.Model(&model.ClubMember{}).Select("club_id").Where("user_id = ?", userID)
	err := db.Preload("Admin").
		Where("admin_id = ? OR id IN (?)", userID, member).
		Order("name ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return list, r.fillCounts(db, list)
}

// Update 按字段更新；fields 的 key 为列名
func (r *ClubRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Model(&model.Club{}).Where("id = ?", id).Updates(fields).Error)
}

// Delete 删除成员关系，活动解除关联（club_id 置空），再删社团
func (r *ClubRepository) Delete(ctx context.Context, id uint64) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteClub(tx, id)
	}))
}

func deleteClub(tx *gorm.DB, id uint64) error {
	if err := tx.Where("club_id = ?", id).Delete(&model.ClubMember{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Event{}).Where("club_id = ?", id).Update("club_id", nil).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Club{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ClubRepository) fillCounts(db *gorm.DB, list []model.Club) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uint64, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	members, err := countBy(db, &model.ClubMember{}, "club_id", ids)
	if err != nil {
		return translate(err)
	}
	events, err := countBy(db, &model.Event{}, "club_id", ids)
	if err != nil {
		return translate(err)
	}
	for i := range list {
		list[i].Counts = &model.ClubCounts{
			Members: members[list[i].ID],
			Events:  events[list[i].ID],
		}
	}
	return nil
}
