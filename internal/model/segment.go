package model

import (
	"encoding/json"
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Segment is a saved filter over an entity type, used for marketing and
// grouping. Criteria is an opaque JSON predicate document stored verbatim;
// this service validates that it is well-formed but never evaluates it.
// MemberCount is a denormalized cache refreshed by an external batch
// process and is not guaranteed consistent with live query results.
type Segment struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Description string         `json:"description" gorm:"type:text"`
	EntityType  string         `json:"entity_type" gorm:"type:varchar(20);not null;default:'customer'"`
	Criteria    datatypes.JSON `json:"criteria" gorm:"type:jsonb"`
	MemberCount int            `json:"member_count" gorm:"default:0"`
	Active      bool           `json:"active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Validate checks the name and that criteria, when present, is well-formed
// JSON.
func (s *Segment) Validate() error {
	if s.Name == "" {
		return apperr.Validation("segment name is required")
	}
	if len(s.Criteria) > 0 && !json.Valid(s.Criteria) {
		return apperr.Validation("criteria must be well-formed JSON")
	}
	return nil
}
