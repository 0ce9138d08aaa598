package models

import (
	"time"

	"gorm.io/gorm"
)

// Note is a free-form text entry shown on the gated landing page.
type Note struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Content   string         `gorm:"not null" json:"content"`
}
