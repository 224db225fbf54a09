package model

import (
	"time"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
)

// OwnerType identifies which kind of entity a file belongs to. Files use a
// polymorphic (type, id) owner pair instead of a typed foreign key because
// the owner can be any entity kind.
type OwnerType string

const (
	OwnerTypeCustomer OwnerType = "customer"
	OwnerTypeSinger   OwnerType = "singer"
	OwnerTypeContract OwnerType = "contract"
	OwnerTypeUser     OwnerType = "user"
)

// Valid reports whether t is a known owner type.
func (t OwnerType) Valid() bool {
	switch t {
	case OwnerTypeCustomer, OwnerTypeSinger, OwnerTypeContract, OwnerTypeUser:
		return true
	}
	return false
}

// FileCategory classifies uploaded assets
type FileCategory string

const (
	FileCategoryProfile     FileCategory = "profile"
	FileCategoryPerformance FileCategory = "performance"
	FileCategoryContract    FileCategory = "contract"
	FileCategoryPortfolio   FileCategory = "portfolio"
	FileCategoryOther       FileCategory = "other"
)

// Valid reports whether c is a known file category.
func (c FileCategory) Valid() bool {
	switch c {
	case FileCategoryProfile, FileCategoryPerformance, FileCategoryContract,
		FileCategoryPortfolio, FileCategoryOther:
		return true
	}
	return false
}

// StorageLocation discriminates where a file's content lives
type StorageLocation string

const (
	StorageLocationDatabase StorageLocation = "database" // inline bytes in the record
	StorageLocationExternal StorageLocation = "external" // object-storage key
)

// File holds metadata for an uploaded asset plus either inline content or a
// pointer to externally stored content. Exactly one of Content and
// StorageKey is authoritative, indicated by StorageLocation. Version is an
// optimistic-concurrency counter on metadata updates.
type File struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Filename        string          `json:"filename" gorm:"type:varchar(255);not null"`
	OriginalName    string          `json:"original_name" gorm:"type:varchar(255)"`
	MimeType        string          `json:"mime_type" gorm:"type:varchar(100)"`
	Size            int64           `json:"size"`
	OwnerType       OwnerType       `json:"owner_type" gorm:"type:varchar(20);index:idx_files_owner;not null"`
	OwnerID         uint            `json:"owner_id" gorm:"index:idx_files_owner;not null"`
	Category        FileCategory    `json:"category" gorm:"type:varchar(20);not null;default:'other'"`
	StorageLocation StorageLocation `json:"storage_location" gorm:"type:varchar(20);not null"`
	Content         []byte          `json:"-" gorm:"type:bytea"`
	StorageKey      string          `json:"-" gorm:"type:varchar(255)"`
	Version         int             `json:"version" gorm:"not null;default:1"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Validate enforces the owner pair, category, and the exactly-one-location
// invariant.
func (f *File) Validate() error {
	if !f.OwnerType.Valid() {
		return apperr.Validation("unknown owner type")
	}
	if f.OwnerID == 0 {
		return apperr.Validation("owner id is required")
	}
	if !f.Category.Valid() {
		return apperr.Validation("unknown file category")
	}
	if f.Filename == "" {
		return apperr.Validation("filename is required")
	}
	switch f.StorageLocation {
	case StorageLocationDatabase:
		if len(f.Content) == 0 || f.StorageKey != "" {
			return apperr.Validation("database-stored files carry inline content only")
		}
	case StorageLocationExternal:
		if f.StorageKey == "" || len(f.Content) != 0 {
			return apperr.Validation("externally stored files carry a storage key only")
		}
	default:
		return apperr.Validation("unknown storage location")
	}
	return nil
}
