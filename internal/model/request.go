package model

import (
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"gorm.io/gorm"
)

// RequestStatus tracks a booking request from submission to closure
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// Valid reports whether s is a known request status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// Request represents a customer's ask for a performer for an event.
// The customer foreign key is SET NULL on delete so requests survive
// customer removal as historical records.
type Request struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CustomerID   *uint          `json:"customer_id" gorm:"index"`
	EventType    string         `json:"event_type" gorm:"type:varchar(50);not null"`
	EventDate    time.Time      `json:"event_date" gorm:"not null"`
	Venue        string         `json:"venue" gorm:"type:varchar(200)"`
	Budget       int64          `json:"budget"` // KRW, non-negative
	Requirements string         `json:"requirements" gorm:"type:text"`
	Status       RequestStatus  `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
}

// Validate enforces the request invariants: exactly one customer reference
// and a non-negative budget.
func (r *Request) Validate() error {
	if r.CustomerID == nil || *r.CustomerID == 0 {
		return apperr.Validation("customer reference is required")
	}
	if r.Budget < 0 {
		return apperr.Validation("budget must not be negative")
	}
	if r.EventType == "" {
		return apperr.Validation("event type is required")
	}
	if r.EventDate.IsZero() {
		return apperr.Validation("event date is required")
	}
	if r.Status != "" && !r.Status.Valid() {
		return apperr.Validation("unknown request status")
	}
	return nil
}
