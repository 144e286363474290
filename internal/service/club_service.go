package service

import (
	"context"
	"strings"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/notification"

	"go.uber.org/zap"
)

type ClubService struct {
	clubs    ClubStore
	members  ClubMemberStore
	users    UserStore
	notifier Notifier
	log      *zap.Logger
}

func NewClubService(clubs ClubStore, members ClubMemberStore, users UserStore, notifier Notifier, log *zap.Logger) *ClubService {
	return &ClubService{clubs: clubs, members: members, users: users, notifier: notifier, log: log}
}

type ClubInput struct {
	Name        string
	Description string
	Category    *string
	MeetingTime *string
}

// ClubPatch nil 字段保持不变
type ClubPatch struct {
	Name        *string
	Description *string
	Category    *string
	MeetingTime *string
}

// Create 社团管理员固定为调用者；是否有建社团的角色由路由中间件把关
func (s *ClubService) Create(ctx context.Context, caller *model.User, in ClubInput) (*model.Club, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	club := &model.Club{
		Name:        name,
		Description: in.Description,
		Category:    in.Category,
		MeetingTime: in.MeetingTime,
		AdminID:     caller.ID,
	}
	if err := s.clubs.Create(ctx, club); err != nil {
		return nil, err
	}
	club.Admin = caller
	s.log.Info("club created", zap.Uint64("club_id", club.ID), zap.Uint64("admin_id", caller.ID))
	return club, nil
}

func (s *ClubService) List(ctx context.Context) ([]model.Club, error) {
	return s.clubs.List(ctx)
}

func (s *ClubService) Get(ctx context.Context, id uint64) (*model.Club, error) {
	club, err := s.clubs.FindDetail(ctx, id)
	if err != nil {
		return nil, missing(err, "club with ID %d not found", id)
	}
	return club, nil
}

// ListByUser 用户管理或加入的社团
func (s *ClubService) ListByUser(ctx context.Context, userID uint64) ([]model.Club, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, missing(err, "user with ID %d not found", userID)
	}
	return s.clubs.ListByUser(ctx, userID)
}

func (s *ClubService) Update(ctx context.Context, caller *model.User, id uint64, p ClubPatch) (*model.Club, error) {
	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "club with ID %d not found", id)
	}
	if !canManageClub(caller, club) {
		return nil, forbidden("you do not have permission to update this club")
	}

	fields := map[string]any{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		fields["name"] = name
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Category != nil {
		fields["category"] = *p.Category
	}
	if p.MeetingTime != nil {
		fields["meeting_time"] = *p.MeetingTime
	}
	if err := s.clubs.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	updated, err := s.clubs.FindDetail(ctx, id)
	if err != nil {
		return nil, missing(err, "club with ID %d not found", id)
	}
	if len(fields) > 0 {
		notifyClubMembers(ctx, s.members, s.notifier, s.log, id, notification.ClubChanged(id, "updated"))
	}
	return updated, nil
}

// Delete 级联范围见 ClubStore.Delete；删除前取成员列表，删除后通知
func (s *ClubService) Delete(ctx context.Context, caller *model.User, id uint64) error {
	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return missing(err, "club with ID %d not found", id)
	}
	if !canManageClub(caller, club) {
		return forbidden("you do not have permission to delete this club")
	}
	memberIDs, err := s.members.MemberIDs(ctx, id)
	if err != nil {
		return err
	}
	if err := s.clubs.Delete(ctx, id); err != nil {
		return missing(err, "club with ID %d not found", id)
	}
	s.log.Info("club deleted", zap.Uint64("club_id", id), zap.Uint64("by", caller.ID))
	fanOut(s.notifier, memberIDs, notification.ClubChanged(id, "deleted"))
	return nil
}

// notifyClubMembers 推送给社团当前全部成员，查询失败只记日志
func notifyClubMembers(ctx context.Context, members ClubMemberStore, notifier Notifier, log *zap.Logger, clubID uint64, n notification.Notification) {
	ids, err := members.MemberIDs(ctx, clubID)
	if err != nil {
		log.Warn("load club members for notification", zap.Uint64("club_id", clubID), zap.Error(err))
		return
	}
	delivered := fanOut(notifier, ids, n)
	log.Debug("club notification fanned out", zap.Uint64("club_id", clubID),
		zap.String("type", n.Type), zap.Int("members", len(ids)), zap.Int("channels", delivered))
}

// fanOut 逐个推送，失败不影响业务结果
func fanOut(notifier Notifier, userIDs []uint64, n notification.Notification) int {
	if notifier == nil {
		return 0
	}
	delivered := 0
	for _, id := range userIDs {
		delivered += notifier.SendToUser(id, n)
	}
	return delivered
}
