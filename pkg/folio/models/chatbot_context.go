package models

import (
	"time"
)

// ChatbotContextID is the fixed id of the singleton grounding record.
const ChatbotContextID = "main"

// ChatbotContext is the admin-editable grounding configuration: the display
// name, the long-form background text, and an optional system prompt template.
// A single record with id "main" is created lazily on the first admin save.
type ChatbotContext struct {
	ID           string    `gorm:"primarykey;type:varchar(32)" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Content      string    `gorm:"not null" json:"content"`
	SystemPrompt string    `json:"system_prompt"`
}
