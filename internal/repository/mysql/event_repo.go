package mysql

import (
	"context"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
			return err
		}
		fields := map[string]any{"title": e.Title, "date_time": e.DateTime}
		if e.ClubID != nil {
			fields["club_id"] = *e.ClubID
		}
		return insertOutbox(tx, model.ActivityEventCreated, e.ID, e.OrganizerID, fields)
	}))
}

// FindByID 带上所属社团，用于权限判断
func (r *EventRepository) FindByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	if err := r.DB.WithContext(ctx).Preload("Organizer").Preload("Club").First(&e, id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// FindDetail 活动详情，含报名列表
func (r *EventRepository) FindDetail(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := r.DB.WithContext(ctx).
		Preload("Organizer").
		Preload("Club").
		Preload("Attendees", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Attendees.User").
		First(&e, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

// ListFrom 开始时间不早于 from 的活动
func (r *EventRepository) ListFrom(ctx context.Context, from time.Time) ([]model.Event, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("date_time >= ?", from)
	})
}

func (r *EventRepository) ListByClub(ctx context.Context, clubID uint64) ([]model.Event, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("club_id = ?", clubID)
	})
}

func (r *EventRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]model.Event, error) {
	var list []model.Event
	db := r.DB.WithContext(ctx)
	err := db.Scopes(scope).
		Preload("Organizer").
		Preload("Club").
		Order("date_time ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(list) == 0 {
		return list, nil
	}
	ids := make([]uint64, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	counts, err := countBy(db, &model.EventAttendee{}, "event_id", ids)
	if err != nil {
		return nil, translate(err)
	}
	for i := range list {
		list[i].Counts = &model.EventCounts{Attendees: counts[list[i].ID]}
	}
	return list, nil
}

func (r *EventRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Model(&model.Event{}).Where("id = ?", id).Updates(fields).Error)
}

// Delete 先删报名，再删活动
func (r *EventRepository) Delete(ctx context.Context, id uint64) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.EventAttendee{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Event{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
