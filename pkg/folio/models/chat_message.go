package models

import (
	"time"
)

// Transcript roles. The service only ever persists these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one persisted transcript entry. Messages are correlated to an
// AccessKey by the key string only; no relational constraint is enforced, so a
// transcript survives its key being deleted. Ordering is by CreatedAt.
type ChatMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	AccessKey string    `gorm:"index;not null" json:"access_key"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	Content   string    `gorm:"not null" json:"content"`
}
