package service

import (
	"context"
	"errors"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/repository"

	"go.uber.org/zap"
)

type ClubMemberService struct {
	members ClubMemberStore
	clubs   ClubStore
	users   UserStore
	log     *zap.Logger
}

func NewClubMemberService(members ClubMemberStore, clubs ClubStore, users UserStore, log *zap.Logger) *ClubMemberService {
	return &ClubMemberService{members: members, clubs: clubs, users: users, log: log}
}

// JoinInput UserID 为空表示调用者本人加入
type JoinInput struct {
	ClubID  uint64
	UserID  *uint64
	IsAdmin bool
}

// Create 替他人加入或设置 isAdmin 需要社团管理权限
func (s *ClubMemberService) Create(ctx context.Context, caller *model.User, in JoinInput) (*model.ClubMember, error) {
	club, err := s.clubs.FindByID(ctx, in.ClubID)
	if err != nil {
		return nil, missing(err, "club with ID %d not found", in.ClubID)
	}
	userID := caller.ID
	if in.UserID != nil {
		userID = *in.UserID
	}
	if (userID != caller.ID || in.IsAdmin) && !canManageClub(caller, club) {
		return nil, forbidden("you do not have permission to manage members of this club")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, missing(err, "user with ID %d not found", userID)
	}

	if _, err := s.members.Find(ctx, in.ClubID, userID); err == nil {
		return nil, conflict("user is already a member of this club")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	m := &model.ClubMember{ClubID: in.ClubID, UserID: userID, IsAdmin: in.IsAdmin}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, duplicate(err, "user is already a member of this club")
	}
	s.log.Info("club member joined",
		zap.Uint64("club_id", in.ClubID), zap.Uint64("user_id", userID), zap.Uint64("by", caller.ID))

	created, err := s.members.Find(ctx, in.ClubID, userID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ClubMemberService) ListByClub(ctx context.Context, clubID uint64) ([]model.ClubMember, error) {
	if _, err := s.clubs.FindByID(ctx, clubID); err != nil {
		return nil, missing(err, "club with ID %d not found", clubID)
	}
	return s.members.ListByClub(ctx, clubID)
}

func (s *ClubMemberService) ListByUser(ctx context.Context, userID uint64) ([]model.ClubMember, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, missing(err, "user with ID %d not found", userID)
	}
	return s.members.ListByUser(ctx, userID)
}

// Update 目前只能修改 isAdmin
func (s *ClubMemberService) Update(ctx context.Context, caller *model.User, clubID, userID uint64, isAdmin *bool) (*model.ClubMember, error) {
	m, club, err := s.load(ctx, clubID, userID)
	if err != nil {
		return nil, err
	}
	if !canManageClub(caller, club) {
		return nil, forbidden("you do not have permission to update club memberships")
	}
	if isAdmin != nil && *isAdmin != m.IsAdmin {
		if err := s.members.UpdateAdmin(ctx, m.ID, *isAdmin); err != nil {
			return nil, err
		}
		m.IsAdmin = *isAdmin
	}
	return m, nil
}

// Delete 社团管理员、系统管理员或成员本人
func (s *ClubMemberService) Delete(ctx context.Context, caller *model.User, clubID, userID uint64) error {
	m, club, err := s.load(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if !canRemoveMember(caller, club, m) {
		return forbidden("you do not have permission to remove this club member")
	}
	if err := s.members.Delete(ctx, m.ID); err != nil {
		return missing(err, "club membership not found")
	}
	s.log.Info("club member removed",
		zap.Uint64("club_id", clubID), zap.Uint64("user_id", userID), zap.Uint64("by", caller.ID))
	return nil
}

func (s *ClubMemberService) load(ctx context.Context, clubID, userID uint64) (*model.ClubMember, *model.Club, error) {
	m, err := s.members.Find(ctx, clubID, userID)
	if err != nil {
		return nil, nil, missing(err, "club membership not found")
	}
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, nil, missing(err, "club with ID %d not found", clubID)
	}
	return m, club, nil
}
