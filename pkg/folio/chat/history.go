package chat

import (
	"sort"

	"github.com/cwolf/folio/pkg/folio/llm"
	"github.com/cwolf/folio/pkg/folio/models"
	"gorm.io/gorm"
)

// Message is one transcript entry in the conversation's own vocabulary
// (role "user" or "assistant").
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LoadHistory returns the persisted transcript for an access key in the
// order exchanged. The store does not guarantee list order, so entries are
// sorted by creation time after the list call.
func LoadHistory(db *gorm.DB, accessKey string) ([]Message, error) {
	var records []models.ChatMessage
	if err := db.Where("access_key = ?", accessKey).Find(&records).Error; err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	history := make([]Message, len(records))
	for i, r := range records {
		history[i] = Message{Role: r.Role, Content: r.Content}
	}
	return history, nil
}

// toProviderHistory maps a transcript to the generation provider's role
// vocabulary: "assistant" becomes "model", and any leading entries before
// the first user turn are dropped because the provider requires the turn
// sequence to begin with a user turn.
func toProviderHistory(transcript []Message) []llm.Message {
	start := -1
	for i, m := range transcript {
		if m.Role == models.RoleUser {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	out := make([]llm.Message, 0, len(transcript)-start)
	for _, m := range transcript[start:] {
		role := llm.RoleUser
		if m.Role == models.RoleAssistant {
			role = llm.RoleModel
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}
