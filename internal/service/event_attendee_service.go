package service

import (
	"context"
	"errors"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/repository"

	"go.uber.org/zap"
)

type EventAttendeeService struct {
	attendees EventAttendeeStore
	events    EventStore
	users     UserStore
	log       *zap.Logger
}

func NewEventAttendeeService(attendees EventAttendeeStore, events EventStore, users UserStore, log *zap.Logger) *EventAttendeeService {
	return &EventAttendeeService{attendees: attendees, events: events, users: users, log: log}
}

// RSVPInput UserID 若给出必须是调用者本人
type RSVPInput struct {
	EventID uint64
	UserID  *uint64
	Status  model.AttendanceStatus
}

// Create 同一用户同一活动只能报名一次；并发重复由唯一索引兜底
func (s *EventAttendeeService) Create(ctx context.Context, caller *model.User, in RSVPInput) (*model.EventAttendee, error) {
	if in.UserID != nil && !canManageAttendance(caller, *in.UserID) {
		return nil, forbidden("you can only register yourself for an event")
	}
	status := in.Status
	if status == "" {
		status = model.StatusGoing
	}
	if !status.Valid() {
		return nil, invalid("unknown attendance status %q", in.Status)
	}
	if _, err := s.events.FindByID(ctx, in.EventID); err != nil {
		return nil, missing(err, "event with ID %d not found", in.EventID)
	}

	if _, err := s.attendees.Find(ctx, in.EventID, caller.ID); err == nil {
		return nil, conflict("user is already registered for this event")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	a := &model.EventAttendee{EventID: in.EventID, UserID: caller.ID, Status: status}
	if err := s.attendees.Create(ctx, a); err != nil {
		return nil, duplicate(err, "user is already registered for this event")
	}
	s.log.Info("event rsvp", zap.Uint64("event_id", in.EventID),
		zap.Uint64("user_id", caller.ID), zap.String("status", string(status)))

	created, err := s.attendees.Find(ctx, in.EventID, caller.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *EventAttendeeService) ListByEvent(ctx context.Context, eventID uint64) ([]model.EventAttendee, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, missing(err, "event with ID %d not found", eventID)
	}
	return s.attendees.ListByEvent(ctx, eventID)
}

func (s *EventAttendeeService) ListByUser(ctx context.Context, userID uint64) ([]model.EventAttendee, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, missing(err, "user with ID %d not found", userID)
	}
	return s.attendees.ListByUser(ctx, userID)
}

func (s *EventAttendeeService) Update(ctx context.Context, caller *model.User, eventID, userID uint64, status model.AttendanceStatus) (*model.EventAttendee, error) {
	if !status.Valid() {
		return nil, invalid("unknown attendance status %q", status)
	}
	a, err := s.attendees.Find(ctx, eventID, userID)
	if err != nil {
		return nil, missing(err, "event attendance record not found")
	}
	if !canManageAttendance(caller, userID) {
		return nil, forbidden("you can only change your own attendance")
	}
	if a.Status != status {
		if err := s.attendees.UpdateStatus(ctx, a.ID, status); err != nil {
			return nil, err
		}
		a.Status = status
	}
	return a, nil
}

func (s *EventAttendeeService) Delete(ctx context.Context, caller *model.User, eventID, userID uint64) error {
	a, err := s.attendees.Find(ctx, eventID, userID)
	if err != nil {
		return missing(err, "event attendance record not found")
	}
	if !canManageAttendance(caller, userID) {
		return forbidden("you can only remove your own attendance")
	}
	if err := s.attendees.Delete(ctx, a.ID); err != nil {
		return missing(err, "event attendance record not found")
	}
	return nil
}
