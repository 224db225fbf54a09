package model

import (
	"time"
)

// Notification is an in-app message for a staff user, created when a match
// is confirmed or a contract is signed. Rows cascade-delete with their
// owning user.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Type      string    `json:"type" gorm:"type:varchar(30);not null"`
	Title     string    `json:"title" gorm:"type:varchar(200)"`
	Message   string    `json:"message" gorm:"type:text"`
	Read      bool      `json:"read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
