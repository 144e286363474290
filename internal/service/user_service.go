package service

import (
	"context"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"go.uber.org/zap"
)

type UserService struct {
	users UserStore
	log   *zap.Logger
}

func NewUserService(users UserStore, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Get(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "user with ID %d not found", id)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, caller *model.User) ([]model.User, error) {
	if !caller.IsAdmin() {
		return nil, forbidden("only administrators can list users")
	}
	return s.users.List(ctx)
}

// Delete 级联范围见 UserStore.Delete
func (s *UserService) Delete(ctx context.Context, caller *model.User, id uint64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return missing(err, "user with ID %d not found", id)
	}
	if !caller.IsAdmin() {
		return forbidden("you do not have permission to delete this user")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return missing(err, "user with ID %d not found", id)
	}
	s.log.Info("user deleted", zap.Uint64("user_id", id), zap.Uint64("by", caller.ID))
	return nil
}
