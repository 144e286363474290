package model

import "time"

type AttendanceStatus string

const (
	StatusGoing      AttendanceStatus = "GOING"
	StatusInterested AttendanceStatus = "INTERESTED"
	StatusNotGoing   AttendanceStatus = "NOT_GOING"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusGoing, StatusInterested, StatusNotGoing:
		return true
	}
	return false
}

type Event struct {
	ID          uint64          `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	DateTime    time.Time       `gorm:"not null;index" json:"dateTime"`
	Location    string          `gorm:"size:255;not null" json:"location"`
	OrganizerID uint64          `gorm:"not null;index" json:"organizerId"`
	Organizer   *User           `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	ClubID      *uint64         `gorm:"index" json:"clubId"`
	Club        *Club           `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	Attendees   []EventAttendee `gorm:"foreignKey:EventID" json:"attendees,omitempty"`
	Counts      *EventCounts    `gorm:"-" json:"_count,omitempty"`
	CreatedAt   time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type EventCounts struct {
	Attendees int64 `json:"attendees"`
}

// EventAttendee (event_id, user_id) 唯一
type EventAttendee struct {
	ID        uint64           `gorm:"primaryKey" json:"id"`
	EventID   uint64           `gorm:"not null;index;uniqueIndex:uk_event_user" json:"eventId"`
	UserID    uint64           `gorm:"not null;index;uniqueIndex:uk_event_user" json:"userId"`
	Status    AttendanceStatus `gorm:"size:16;not null" json:"status"`
	User      *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event     *Event           `gorm:"foreignKey:EventID" json:"event,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
