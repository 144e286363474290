package model

import "time"

type Club struct {
	ID          uint64       `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:128;not null;index" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Category    *string      `gorm:"size:64" json:"category"`
	MeetingTime *string      `gorm:"size:128" json:"meetingTime"`
	AdminID     uint64       `gorm:"not null;index" json:"adminId"`
	Admin       *User        `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Members     []ClubMember `gorm:"foreignKey:ClubID" json:"members,omitempty"`
	Events      []Event      `gorm:"foreignKey:ClubID" json:"events,omitempty"`
	Counts      *ClubCounts  `gorm:"-" json:"_count,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type ClubCounts struct {
	Members int64 `json:"members"`
	Events  int64 `json:"events"`
}

// ClubMember (club_id, user_id) 唯一；IsAdmin 为社团内管理权限
type ClubMember struct {
	ID       uint64    `gorm:"primaryKey" json:"id"`
	ClubID   uint64    `gorm:"not null;index;uniqueIndex:uk_club_user" json:"clubId"`
	UserID   uint64    `gorm:"not null;index;uniqueIndex:uk_club_user" json:"userId"`
	IsAdmin  bool      `gorm:"not null;default:false" json:"isAdmin"`
	JoinedAt time.Time `gorm:"autoCreateTime;index" json:"joinedAt"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Club     *Club     `gorm:"foreignKey:ClubID" json:"club,omitempty"`
}
