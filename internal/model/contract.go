package model

import (
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"gorm.io/gorm"
)

// PaymentStatus tracks money received against a contract
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// ContractStatus tracks the document lifecycle
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusSent      ContractStatus = "sent"
	ContractStatusSigned    ContractStatus = "signed"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// Valid reports whether s is a known contract status.
func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusSent, ContractStatusSigned,
		ContractStatusCompleted, ContractStatusCancelled:
		return true
	}
	return false
}

// Contract represents the finalized agreement derived from a confirmed
// match. Payment status and contract status advance independently, but a
// contract cannot complete while unpaid, and a completed contract is
// immutable.
type Contract struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	MatchID       uint           `json:"match_id" gorm:"index;not null"`
	ScheduleID    *uint          `json:"schedule_id,omitempty" gorm:"index"`
	Amount        int64          `json:"amount"` // defaults from the confirmed match price
	PaymentStatus PaymentStatus  `json:"payment_status" gorm:"type:varchar(20);not null;default:'unpaid'"`
	Status        ContractStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	SignedAt      *time.Time     `json:"signed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Match    *Match    `json:"match,omitempty" gorm:"foreignKey:MatchID"`
	Schedule *Schedule `json:"schedule,omitempty" gorm:"foreignKey:ScheduleID"`
}

// Mutable reports whether the contract still accepts changes.
func (c *Contract) Mutable() bool {
	return c.Status != ContractStatusCompleted
}

// UpdateStatus validates and applies a contract status change.
func (c *Contract) UpdateStatus(next ContractStatus) error {
	if !next.Valid() {
		return apperr.Validation("unknown contract status")
	}
	if !c.Mutable() {
		return apperr.Conflict("completed contracts are immutable")
	}
	if next == ContractStatusCompleted && c.PaymentStatus == PaymentStatusUnpaid {
		return apperr.Conflict("cannot complete an unpaid contract")
	}
	if next == ContractStatusSigned && c.SignedAt == nil {
		now := time.Now()
		c.SignedAt = &now
	}
	c.Status = next
	return nil
}

// UpdatePayment validates and applies a payment status change.
func (c *Contract) UpdatePayment(next PaymentStatus) error {
	if !next.Valid() {
		return apperr.Validation("unknown payment status")
	}
	if !c.Mutable() {
		return apperr.Conflict("completed contracts are immutable")
	}
	c.PaymentStatus = next
	return nil
}
