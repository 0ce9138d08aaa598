package grounding

import (
	"errors"
	"strings"

	"github.com/cwolf/folio/pkg/folio/models"
	"gorm.io/gorm"
)

// Built-in defaults used until an operator saves a configuration.
const (
	DefaultName    = "Chris Wolfgang"
	DefaultContent = "No background information has been provided yet. " +
		"Let the visitor know the profile is still being set up."
	DefaultSystemPrompt = "You are a friendly assistant answering questions about {{name}} " +
		"on their personal portfolio site. Ground every answer in the background " +
		"information below. If something isn't covered there, say so instead of guessing.\n\n" +
		"Background information about {{name}}:\n{{context}}"
)

// Config is the resolved grounding triple used for prompts and page labels.
type Config struct {
	Name         string `json:"name"`
	Content      string `json:"content"`
	SystemPrompt string `json:"system_prompt"`
}

// Resolver loads and saves the singleton grounding configuration.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a resolver backed by the given database.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve returns the current configuration, substituting built-in defaults
// for the record's absence or for any empty field.
func (r *Resolver) Resolve() (Config, error) {
	var record models.ChatbotContext
	err := r.db.First(&record, "id = ?", models.ChatbotContextID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Config{
			Name:         DefaultName,
			Content:      DefaultContent,
			SystemPrompt: DefaultSystemPrompt,
		}, nil
	}
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Name:         record.Name,
		Content:      record.Content,
		SystemPrompt: record.SystemPrompt,
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	return cfg, nil
}

// Save upserts the singleton configuration record. An empty systemPrompt
// clears the stored template so Resolve falls back to the built-in one.
func (r *Resolver) Save(name, content, systemPrompt string) error {
	record := models.ChatbotContext{
		ID:           models.ChatbotContextID,
		Name:         name,
		Content:      content,
		SystemPrompt: systemPrompt,
	}

	var existing models.ChatbotContext
	err := r.db.First(&existing, "id = ?", models.ChatbotContextID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&record).Error
	}
	if err != nil {
		return err
	}

	return r.db.Model(&existing).Select("name", "content", "system_prompt").Updates(map[string]interface{}{
		"name":          name,
		"content":       content,
		"system_prompt": systemPrompt,
	}).Error
}

// RenderSystemPrompt substitutes every occurrence of the {{name}} and
// {{context}} placeholders (and {{resume}}, kept as an alias for older
// templates) with the configured values. Plain literal replacement: no
// escaping, no recursive expansion.
func RenderSystemPrompt(template, name, content string) string {
	out := strings.ReplaceAll(template, "{{name}}", name)
	out = strings.ReplaceAll(out, "{{context}}", content)
	out = strings.ReplaceAll(out, "{{resume}}", content)
	return out
}

// SystemPrompt resolves the configuration and renders the final instruction.
func (r *Resolver) SystemPrompt() (string, error) {
	cfg, err := r.Resolve()
	if err != nil {
		return "", err
	}
	return RenderSystemPrompt(cfg.SystemPrompt, cfg.Name, cfg.Content), nil
}
