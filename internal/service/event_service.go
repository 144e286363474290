package service

import (
	"context"
	"strings"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/notification"

	"go.uber.org/zap"
)

type EventService struct {
	events   EventStore
	clubs    ClubStore
	members  ClubMemberStore
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewEventService(events EventStore, clubs ClubStore, members ClubMemberStore, notifier Notifier, log *zap.Logger) *EventService {
	return &EventService{
		events:   events,
		clubs:    clubs,
		members:  members,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type EventInput struct {
	Title       string
	Description string
	DateTime    time.Time
	Location    string
	ClubID      *uint64
}

// EventPatch nil 字段保持不变；ClubID 非空表示迁到另一个社团
type EventPatch struct {
	Title       *string
	Description *string
	DateTime    *time.Time
	Location    *string
	ClubID      *uint64
}

// Create 挂在社团下的活动创建后通知全部成员，通知失败不回滚
func (s *EventService) Create(ctx context.Context, caller *model.User, in EventInput) (*model.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if in.DateTime.IsZero() {
		return nil, invalid("dateTime is required")
	}
	if in.ClubID != nil {
		if _, err := s.clubs.FindByID(ctx, *in.ClubID); err != nil {
			return nil, missing(err, "club with ID %d not found", *in.ClubID)
		}
	}

	e := &model.Event{
		Title:       title,
		Description: in.Description,
		DateTime:    in.DateTime.UTC(),
		Location:    in.Location,
		OrganizerID: caller.ID,
		ClubID:      in.ClubID,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("event created", zap.Uint64("event_id", e.ID), zap.Uint64("organizer_id", caller.ID))

	if e.ClubID != nil {
		notifyClubMembers(ctx, s.members, s.notifier, s.log, *e.ClubID, notification.EventCreated(e.ID, e.Title))
	}

	created, err := s.events.FindByID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// ListFuture 尚未开始的活动
func (s *EventService) ListFuture(ctx context.Context) ([]model.Event, error) {
	return s.events.ListFrom(ctx, s.now().UTC())
}

func (s *EventService) Get(ctx context.Context, id uint64) (*model.Event, error) {
	e, err := s.events.FindDetail(ctx, id)
	if err != nil {
		return nil, missing(err, "event with ID %d not found", id)
	}
	return e, nil
}

func (s *EventService) ListByClub(ctx context.Context, clubID uint64) ([]model.Event, error) {
	if _, err := s.clubs.FindByID(ctx, clubID); err != nil {
		return nil, missing(err, "club with ID %d not found", clubID)
	}
	return s.events.ListByClub(ctx, clubID)
}

func (s *EventService) Update(ctx context.Context, caller *model.User, id uint64, p EventPatch) (*model.Event, error) {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "event with ID %d not found", id)
	}
	if !canManageEvent(caller, e) {
		return nil, forbidden("you do not have permission to update this event")
	}

	fields := map[string]any{}
	if p.ClubID != nil {
		if _, err := s.clubs.FindByID(ctx, *p.ClubID); err != nil {
			return nil, missing(err, "club with ID %d not found", *p.ClubID)
		}
		fields["club_id"] = *p.ClubID
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, invalid("title must not be empty")
		}
		fields["title"] = title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.DateTime != nil {
		if p.DateTime.IsZero() {
			return nil, invalid("dateTime must not be empty")
		}
		fields["date_time"] = p.DateTime.UTC()
	}
	if p.Location != nil {
		fields["location"] = *p.Location
	}
	if err := s.events.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	updated, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "event with ID %d not found", id)
	}
	return updated, nil
}

// Delete 级联范围见 EventStore.Delete
func (s *EventService) Delete(ctx context.Context, caller *model.User, id uint64) error {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return missing(err, "event with ID %d not found", id)
	}
	if !canManageEvent(caller, e) {
		return forbidden("you do not have permission to delete this event")
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return missing(err, "event with ID %d not found", id)
	}
	s.log.Info("event deleted", zap.Uint64("event_id", id), zap.Uint64("by", caller.ID))
	return nil
}
