package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleClubAdmin Role = "CLUB_ADMIN"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole 解析角色名（大小写不敏感），未知角色返回 ok=false
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleClubAdmin:
		return RoleClubAdmin, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FullName  string    `gorm:"size:128;not null" json:"fullName"`
	Role      Role      `gorm:"size:16;not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
