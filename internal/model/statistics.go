package model

import "time"

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// OverviewStatistics 全站概览
type OverviewStatistics struct {
	TotalUsers        int64           `json:"totalUsers"`
	TotalClubs        int64           `json:"totalClubs"`
	TotalEvents       int64           `json:"totalEvents"`
	TotalPosts        int64           `json:"totalPosts"`
	UpcomingEvents    int64           `json:"upcomingEvents"`
	ActiveClubs       int64           `json:"activeClubs"`
	PostsLastWeek     int64           `json:"postsLastWeek"`
	EventsLastWeek    int64           `json:"eventsLastWeek"`
	EventsPerCategory []CategoryCount `json:"eventsPerCategory"`
}

// AdminDashboard 管理后台，在概览上加标记
type AdminDashboard struct {
	OverviewStatistics
	AdminOnly bool `json:"adminOnly"`
}

type UpcomingEvent struct {
	ID       uint64           `json:"id"`
	Title    string           `json:"title"`
	DateTime time.Time        `json:"dateTime"`
	Status   AttendanceStatus `json:"status"`
}

type Activity struct {
	Type      string    `json:"type"` // post / comment / attendance
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserStatistics struct {
	User                *User           `json:"user"`
	ClubCount           int64           `json:"clubCount"`
	ClubAdminCount      int64           `json:"clubAdminCount"`
	EventCount          int64           `json:"eventCount"`
	EventOrganizedCount int64           `json:"eventOrganizedCount"`
	PostCount           int64           `json:"postCount"`
	CommentCount        int64           `json:"commentCount"`
	UpcomingEvents      []UpcomingEvent `json:"upcomingEvents"`
	RecentActivity      []Activity      `json:"recentActivity"`
}
