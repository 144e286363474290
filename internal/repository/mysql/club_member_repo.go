package mysql

import (
	"context"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClubMemberRepository struct {
	DB *gorm.DB
}

func NewClubMemberRepository(db *gorm.DB) *ClubMemberRepository {
	return &ClubMemberRepository{DB: db}
}

// Create 加入社团；(club_id, user_id) 冲突返回 repository.ErrDuplicate
func (r *ClubMemberRepository) Create(ctx context.Context, m *model.ClubMember) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.ActivityMemberJoined, m.ClubID, m.UserID, map[string]any{
			"member_id": m.ID,
			"is_admin":  m.IsAdmin,
		})
	}))
}

func (r *ClubMemberRepository) Find(ctx context.Context, clubID, userID uint64) (*model.ClubMember, error) {
	var m model.ClubMember
	err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Club").
		Where("club_id = ? AND user_id = ?", clubID, userID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *ClubMemberRepository) ListByClub(ctx context.Context, clubID uint64) ([]model.ClubMember, error) {
	var list []model.ClubMember
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("club_id = ?", clubID).
		Order("joined_at ASC, id ASC").
		Find(&list).Error
	return list, translate(err)
}

func (r *ClubMemberRepository) ListByUser(ctx context.Context, userID uint64) ([]model.ClubMember, error) {
	var list []model.ClubMember
	err := r.DB.WithContext(ctx).
		Preload("Club").
		Preload("Club.Admin").
		Where("user_id = ?", userID).
		Order("joined_at ASC, id ASC").
		Find(&list).Error
	return list, translate(err)
}

// MemberIDs 社团当前全部成员的 user_id
func (r *ClubMemberRepository) MemberIDs(ctx context.Context, clubID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&model.ClubMember{}).
		Where("club_id = ?", clubID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	return ids, translate(err)
}

func (r *ClubMemberRepository) UpdateAdmin(ctx context.Context, id uint64, isAdmin bool) error {
	return translate(r.DB.WithContext(ctx).
		Model(&model.ClubMember{}).
		Where("id = ?", id).
		Update("is_admin", isAdmin).Error)
}

func (r *ClubMemberRepository) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.ClubMember{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
