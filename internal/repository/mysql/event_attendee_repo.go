package mysql

import (
	"context"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventAttendeeRepository struct {
	DB *gorm.DB
}

func NewEventAttendeeRepository(db *gorm.DB) *EventAttendeeRepository {
	return &EventAttendeeRepository{DB: db}
}

// Create 报名；并发重复报名由唯一索引兜底，返回 repository.ErrDuplicate
func (r *EventAttendeeRepository) Create(ctx context.Context, a *model.EventAttendee) error {
	return translate(r.DB.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

func (r *EventAttendeeRepository) Find(ctx context.Context, eventID, userID uint64) (*model.EventAttendee, error) {
	var a model.EventAttendee
	err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Event").
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *EventAttendeeRepository) ListByEvent(ctx context.Context, eventID uint64) ([]model.EventAttendee, error) {
	var list []model.EventAttendee
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, translate(err)
}

// ListByUser 按活动时间升序
func (r *EventAttendeeRepository) ListByUser(ctx context.Context, userID uint64) ([]model.EventAttendee, error) {
	var list []model.EventAttendee
	err := r.DB.WithContext(ctx).
		Select("event_attendees.*").
		Joins("JOIN events ON events.id = event_attendees.event_id").
		Preload("Event").
		Preload("Event.Organizer").
		Preload("Event.Club").
		Where("event_attendees.user_id = ?", userID).
		Order("events.date_time ASC, event_attendees.id ASC").
		Find(&list).Error
	return list, translate(err)
}

func (r *EventAttendeeRepository) UpdateStatus(ctx context.Context, id uint64, status model.AttendanceStatus) error {
	return translate(r.DB.WithContext(ctx).
		Model(&model.EventAttendee{}).
		Where("id = ?", id).
		Update("status", status).Error)
}

func (r *EventAttendeeRepository) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.EventAttendee{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
