package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a staff account stored in the database
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Name      string         `json:"name" gorm:"type:varchar(100)"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	Role      string         `json:"role" gorm:"type:varchar(20);default:'staff'"` // 'admin' or 'staff'
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
