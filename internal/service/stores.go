package service

import (
	"context"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/notification"
)

// 以下接口由 repository/mysql 实现；删除的级联范围是接口契约的一部分

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// Delete 同时删除该用户的成员关系、报名、评论、帖子（含评论）、
	// 组织的活动（含报名）以及其管理的社团（同 ClubStore.Delete）
	Delete(ctx context.Context, id uint64) error
}

type ClubStore interface {
	Create(ctx context.Context, club *model.Club) error
	FindByID(ctx context.Context, id uint64) (*model.Club, error)
	FindDetail(ctx context.Context, id uint64) (*model.Club, error)
	List(ctx context.Context) ([]model.Club, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Club, error)
	Update(ctx context.Context, id uint64, fields map[string]any) error
	// Delete 删除全部成员关系，活动的 club_id 置空，再删除社团，单事务
	Delete(ctx context.Context, id uint64) error
}

type ClubMemberStore interface {
	Create(ctx context.Context, m *model.ClubMember) error
	Find(ctx context.Context, clubID, userID uint64) (*model.ClubMember, error)
	ListByClub(ctx context.Context, clubID uint64) ([]model.ClubMember, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.ClubMember, error)
	MemberIDs(ctx context.Context, clubID uint64) ([]uint64, error)
	UpdateAdmin(ctx context.Context, id uint64, isAdmin bool) error
	Delete(ctx context.Context, id uint64) error
}

type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	FindByID(ctx context.Context, id uint64) (*model.Event, error)
	FindDetail(ctx context.Context, id uint64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListFrom(ctx context.Context, from time.Time) ([]model.Event, error)
	ListByClub(ctx context.Context, clubID uint64) ([]model.Event, error)
	Update(ctx context.Context, id uint64, fields map[string]any) error
	// Delete 先删报名再删活动
	Delete(ctx context.Context, id uint64) error
}

type EventAttendeeStore interface {
	Create(ctx context.Context, a *model.EventAttendee) error
	Find(ctx context.Context, eventID, userID uint64) (*model.EventAttendee, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]model.EventAttendee, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.EventAttendee, error)
	UpdateStatus(ctx context.Context, id uint64, status model.AttendanceStatus) error
	Delete(ctx context.Context, id uint64) error
}

type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint64) (*model.Post, error)
	FindDetail(ctx context.Context, id uint64) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error)
	Update(ctx context.Context, id uint64, fields map[string]any) error
	// Delete 先删评论再删帖子
	Delete(ctx context.Context, id uint64) error
}

type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, id uint64) (*model.Comment, error)
	ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error)
	Delete(ctx context.Context, id uint64) error
}

type StatisticsStore interface {
	Overview(ctx context.Context, now time.Time) (*model.OverviewStatistics, error)
	UserStatistics(ctx context.Context, user *model.User, now time.Time) (*model.UserStatistics, error)
}

type OutboxStore interface {
	List(ctx context.Context, batchSize, maxRetry int) ([]model.ActivityOutbox, error)
	RetryUpdate(ctx context.Context, id uint64) error
	SuccessUpdate(ctx context.Context, id uint64) error
}

// OverviewCache 未命中返回任意 error 即可，调用方回源数据库
type OverviewCache interface {
	GetOverview(ctx context.Context) (*model.OverviewStatistics, error)
	SetOverview(ctx context.Context, s *model.OverviewStatistics) error
}

// Notifier 推送给在线用户，离线直接丢弃；返回实际投递的连接数
type Notifier interface {
	SendToUser(userID uint64, n notification.Notification) int
}
