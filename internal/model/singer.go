package model

import (
	"time"

	"gorm.io/gorm"
)

// Singer represents a performer available for booking
type Singer struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	StageName  string         `json:"stage_name" gorm:"type:varchar(100);not null"`
	RealName   string         `json:"real_name" gorm:"type:varchar(100)"`
	Email      string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Phone      string         `json:"phone" gorm:"type:varchar(30)"`
	Genre      string         `json:"genre" gorm:"type:varchar(50)"`
	Agency     string         `json:"agency" gorm:"type:varchar(100)"`
	PriceFloor int64          `json:"price_floor"` // minimum booking fee, in KRW
	Bio        string         `json:"bio" gorm:"type:text"`
	Active     bool           `json:"active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
