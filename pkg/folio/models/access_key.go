package models

import (
	"time"
)

// DefaultMaxUsage is the usage ceiling applied when a key is created without one.
const DefaultMaxUsage = 100

// AccessKey grants count-limited access to the gated pages. The opaque key
// string is the primary key; there is no separate numeric ID.
type AccessKey struct {
	Key        string    `gorm:"primarykey;type:varchar(64)" json:"key"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `gorm:"not null" json:"name"`
	UsageCount int       `gorm:"default:0;not null" json:"usage_count"`
	MaxUsage   int       `gorm:"default:100;not null" json:"max_usage"`
	IsActive   bool      `gorm:"default:true;not null" json:"is_active"`
}

// Limit returns the effective usage ceiling, falling back to the default
// when the stored value is unset.
func (k *AccessKey) Limit() int {
	if k.MaxUsage <= 0 {
		return DefaultMaxUsage
	}
	return k.MaxUsage
}
