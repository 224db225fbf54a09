package model

import (
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"gorm.io/gorm"
)

// ScheduleStatus tracks a confirmed calendar event
type ScheduleStatus string

const (
	ScheduleStatusScheduled  ScheduleStatus = "scheduled"
	ScheduleStatusInProgress ScheduleStatus = "in_progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
	ScheduleStatusCancelled  ScheduleStatus = "cancelled"
	ScheduleStatusChanged    ScheduleStatus = "changed"
)

// Valid reports whether s is a known schedule status.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusScheduled, ScheduleStatusInProgress, ScheduleStatusCompleted,
		ScheduleStatusCancelled, ScheduleStatusChanged:
		return true
	}
	return false
}

// Schedule represents a confirmed calendar event derived from a match.
// Customer and singer names are denormalized for read convenience.
type Schedule struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	MatchID      uint           `json:"match_id" gorm:"index;not null"`
	EventTitle   string         `json:"event_title" gorm:"type:varchar(200);not null"`
	EventDate    time.Time      `json:"event_date" gorm:"not null"`
	StartTime    time.Time      `json:"start_time" gorm:"not null"`
	EndTime      time.Time      `json:"end_time" gorm:"not null"`
	Venue        string         `json:"venue" gorm:"type:varchar(200)"`
	CustomerName string         `json:"customer_name" gorm:"type:varchar(100)"`
	SingerName   string         `json:"singer_name" gorm:"type:varchar(100)"`
	Status       ScheduleStatus `json:"status" gorm:"type:varchar(20);not null;default:'scheduled'"`
	Details      string         `json:"details" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Match *Match `json:"match,omitempty" gorm:"foreignKey:MatchID"`
}

// Validate enforces the event window invariant.
func (s *Schedule) Validate() error {
	if s.MatchID == 0 {
		return apperr.Validation("match reference is required")
	}
	if s.EventTitle == "" {
		return apperr.Validation("event title is required")
	}
	if !s.StartTime.Before(s.EndTime) {
		return apperr.Validation("start time must be before end time")
	}
	if s.Status != "" && !s.Status.Valid() {
		return apperr.Validation("unknown schedule status")
	}
	return nil
}
