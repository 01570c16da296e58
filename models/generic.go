package models

import (
	"time"

	"gorm.io/gorm"
)

// Generic holds the columns shared by every model: a surrogate primary key,
// creation/update timestamps, and a soft-delete marker.
type Generic struct {
	ID        uint           `gorm:"primarykey" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
