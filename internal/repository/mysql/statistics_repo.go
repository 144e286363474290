package mysql

import (
	"context"
	"sort"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"gorm.io/gorm"
)

const (
	upcomingLimit = 5
	recentPerKind = 3
	recentLimit   = 5
)

type StatisticsRepository struct {
	DB *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{DB: db}
}

// Overview 以 now 为基准统计：活跃社团为上月以来有活动的社团，近 7 天新帖/新活动
func (r *StatisticsRepository) Overview(ctx context.Context, now time.Time) (*model.OverviewStatistics, error) {
	db := r.DB.WithContext(ctx)
	lastWeek := now.AddDate(0, 0, -7)
	lastMonth := now.AddDate(0, -1, 0)

	var s model.OverviewStatistics
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&s.TotalUsers, db.Model(&model.User{})},
		{&s.TotalClubs, db.Model(&model.Club{})},
		{&s.TotalEvents, db.Model(&model.Event{})},
		{&s.TotalPosts, db.Model(&model.Post{})},
		{&s.UpcomingEvents, db.Model(&model.Event{}).Where("date_time >= ?", now)},
		{&s.ActiveClubs, db.Model(&model.Event{}).
			Where("club_id IS NOT NULL AND date_time >= ?", lastMonth).
			Distinct("club_id")},
		{&s.PostsLastWeek, db.Model(&model.Post{}).Where("created_at >= ?", lastWeek)},
		{&s.EventsLastWeek, db.Model(&model.Event{}).Where("created_at >= ?", lastWeek)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, translate(err)
		}
	}

	s.EventsPerCategory = []model.CategoryCount{}
	err := db.Table("clubs").
		Select("clubs.category AS category, COUNT(events.id) AS count").
		Joins("LEFT JOIN events ON events.club_id = clubs.id").
		Where("clubs.category IS NOT NULL AND clubs.category <> ''").
		Group("clubs.category").
		Order("count DESC, category ASC").
		Scan(&s.EventsPerCategory).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// UserStatistics 调用方需先确认用户存在
func (r *StatisticsRepository) UserStatistics(ctx context.Context, user *model.User, now time.Time) (*model.UserStatistics, error) {
	db := r.DB.WithContext(ctx)
	s := &model.UserStatistics{User: user}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&s.ClubCount, db.Model(&model.ClubMember{}).Where("user_id = ?", user.ID)},
		{&s.ClubAdminCount, db.Model(&model.Club{}).Where("admin_id = ?", user.ID)},
		{&s.EventCount, db.Model(&model.EventAttendee{}).Where("user_id = ?", user.ID)},
		{&s.EventOrganizedCount, db.Model(&model.Event{}).Where("organizer_id = ?", user.ID)},
		{&s.PostCount, db.Model(&model.Post{}).Where("author_id = ?", user.ID)},
		{&s.CommentCount, db.Model(&model.Comment{}).Where("author_id = ?", user.ID)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, translate(err)
		}
	}

	s.UpcomingEvents = []model.UpcomingEvent{}
	err := db.Table("event_attendees").
		Select("events.id AS id, events.title AS title, events.date_time AS date_time, event_attendees.status AS status").
		Joins("JOIN events ON events.id = event_attendees.event_id").
		Where("event_attendees.user_id = ? AND events.date_time >= ?", user.ID, now).
		Order("events.date_time ASC, events.id ASC").
		Limit(upcomingLimit).
		Scan(&s.UpcomingEvents).Error
	if err != nil {
		return nil, translate(err)
	}

	activity, err := r.recentActivity(db, user.ID)
	if err != nil {
		return nil, translate(err)
	}
	s.RecentActivity = activity
	return s, nil
}

// recentActivity 各取最近 3 条帖子、评论、报名，合并后按时间倒序取前 5
func (r *StatisticsRepository) recentActivity(db *gorm.DB, userID uint64) ([]model.Activity, error) {
	var posts, comments, attendances []model.Activity

	if err := db.Table("posts").
		Select("'post' AS type, id, title, created_at").
		Where("author_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(recentPerKind).
		Scan(&posts).Error; err != nil {
		return nil, err
	}
	if err := db.Table("comments").
		Select("'comment' AS type, comments.id AS id, posts.title AS title, comments.created_at AS created_at").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("comments.author_id = ?", userID).
		Order("comments.created_at DESC, comments.id DESC").
		Limit(recentPerKind).
		Scan(&comments).Error; err != nil {
		return nil, err
	}
	if err := db.Table("event_attendees").
		Select("'attendance' AS type, event_attendees.id AS id, events.title AS title, event_attendees.created_at AS created_at").
		Joins("JOIN events ON events.id = event_attendees.event_id").
		Where("event_attendees.user_id = ?", userID).
		Order("event_attendees.created_at DESC, event_attendees.id DESC").
		Limit(recentPerKind).
		Scan(&attendances).Error; err != nil {
		return nil, err
	}

	for i := range comments {
		comments[i].Title = "Comment on " + comments[i].Title
	}
	for i := range attendances {
		attendances[i].Title = "Attending " + attendances[i].Title
	}

	all := make([]model.Activity, 0, len(posts)+len(comments)+len(attendances))
	all = append(all, posts...)
	all = append(all, comments...)
	all = append(all, attendances...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > recentLimit {
		all = all[:recentLimit]
	}
	return all, nil
}
