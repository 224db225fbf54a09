package model

import (
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"gorm.io/gorm"
)

// MatchStatus tracks a negotiation from proposal to resolution
type MatchStatus string

const (
	MatchStatusPending     MatchStatus = "pending"
	MatchStatusNegotiating MatchStatus = "negotiating"
	MatchStatusConfirmed   MatchStatus = "confirmed"
	MatchStatusCancelled   MatchStatus = "cancelled"
)

// Valid reports whether s is a known match status.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusNegotiating, MatchStatusConfirmed, MatchStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s MatchStatus) Terminal() bool {
	return s == MatchStatusConfirmed || s == MatchStatusCancelled
}

// CanTransitionTo reports whether the status machine permits moving from s
// to next. Terminal states absorb; pending may move to negotiating or
// cancelled; negotiating may move to confirmed or cancelled.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case MatchStatusPending:
		return next == MatchStatusNegotiating || next == MatchStatusCancelled
	case MatchStatusNegotiating:
		return next == MatchStatusConfirmed || next == MatchStatusCancelled
	}
	return false
}

// NegotiationCategory classifies negotiation log entries
type NegotiationCategory string

const (
	NegotiationCategoryPrice    NegotiationCategory = "price"
	NegotiationCategorySchedule NegotiationCategory = "schedule"
	NegotiationCategoryNote     NegotiationCategory = "note"
	NegotiationCategoryOther    NegotiationCategory = "other"
)

// NegotiationEntry is one timestamped note in a match's append-only
// negotiation log. Price entries carry a proposed price, schedule entries a
// proposed date; both are rejected for other categories.
type NegotiationEntry struct {
	ID            uint                `json:"id" gorm:"primaryKey"`
	MatchID       uint                `json:"match_id" gorm:"index;not null"`
	AuthorID      uint                `json:"author_id" gorm:"index;not null"`
	Category      NegotiationCategory `json:"category" gorm:"type:varchar(20);not null"`
	Note          string              `json:"note" gorm:"type:text"`
	ProposedPrice *int64              `json:"proposed_price,omitempty"`
	ProposedDate  *time.Time          `json:"proposed_date,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// Validate enforces category-specific fields on a log entry.
func (e *NegotiationEntry) Validate() error {
	switch e.Category {
	case NegotiationCategoryPrice:
		if e.ProposedPrice == nil {
			return apperr.Validation("price entries require a proposed price")
		}
		if *e.ProposedPrice < 0 {
			return apperr.Validation("proposed price must not be negative")
		}
	case NegotiationCategorySchedule:
		if e.ProposedDate == nil {
			return apperr.Validation("schedule entries require a proposed date")
		}
	case NegotiationCategoryNote, NegotiationCategoryOther:
		if e.ProposedPrice != nil || e.ProposedDate != nil {
			return apperr.Validation("only price and schedule entries carry proposals")
		}
		if e.Note == "" {
			return apperr.Validation("note text is required")
		}
	default:
		return apperr.Validation("unknown negotiation category")
	}
	return nil
}

// Match represents a proposed pairing of a request with a singer, carrying
// a negotiable price and the negotiation log.
type Match struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	RequestID    uint           `json:"request_id" gorm:"index;not null"`
	SingerID     uint           `json:"singer_id" gorm:"index;not null"`
	Price        *int64         `json:"price,omitempty"` // current negotiated price, final once confirmed
	Status       MatchStatus    `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Requirements string         `json:"requirements" gorm:"type:text"` // snapshot taken from the request at pairing time
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Request *Request           `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Singer  *Singer            `json:"singer,omitempty" gorm:"foreignKey:SingerID"`
	Log     []NegotiationEntry `json:"log,omitempty" gorm:"foreignKey:MatchID"`
}

// Transition validates and applies a status change. Confirmation requires a
// price; any move out of a terminal state is a conflict, never ignored.
func (m *Match) Transition(next MatchStatus) error {
	if !next.Valid() {
		return apperr.Validation("unknown match status")
	}
	if !m.Status.CanTransitionTo(next) {
		return apperr.Conflict("cannot transition match from " + string(m.Status) + " to " + string(next))
	}
	if next == MatchStatusConfirmed && m.Price == nil {
		return apperr.Conflict("cannot confirm a match without a final price")
	}
	m.Status = next
	return nil
}

// SetPrice updates the negotiated price. The price is final once the match
// is confirmed.
func (m *Match) SetPrice(price int64) error {
	if m.Status.Terminal() {
		return apperr.Conflict("cannot edit price of a " + string(m.Status) + " match")
	}
	if price < 0 {
		return apperr.Validation("price must not be negative")
	}
	m.Price = &price
	return nil
}

// EnsureConfirmed guards schedule and contract creation: downstream
// artifacts may only derive from a confirmed match.
func (m *Match) EnsureConfirmed() error {
	if m.Status != MatchStatusConfirmed {
		return apperr.Conflict("match is " + string(m.Status) + ", not confirmed")
	}
	return nil
}
