package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a client who requests performers for events
type Customer struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	Company   string         `json:"company" gorm:"type:varchar(100)"`
	Memo      string         `json:"memo" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
