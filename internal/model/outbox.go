package model

import "time"

const (
	ActivityClubCreated  = "club.created"
	ActivityMemberJoined = "member.joined"
	ActivityEventCreated = "event.created"
	ActivityPostCreated  = "post.created"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// ActivityOutbox 领域事件发件箱，由 OutboxRelayer 投递到 kafka
type ActivityOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"`
	AggregateID uint64 `gorm:"not null"`
	ActorID     uint64 `gorm:"not null"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;index"` // 0=pending,1=sent,2=failed
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ActivityOutbox) TableName() string { return "activity_outbox" }

// All 所有需要建表的模型，按迁移顺序
func All() []any {
	return []any{
		&User{},
		&Club{},
		&ClubMember{},
		&Event{},
		&EventAttendee{},
		&Post{},
		&Comment{},
		&ActivityOutbox{},
	}
}
