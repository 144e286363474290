// Package repository holds the error contract shared by every store backend.
package repository

import "errors"

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束（用户名、(club_id,user_id)、(event_id,user_id)）
	ErrDuplicate = errors.New("duplicate key")
)
