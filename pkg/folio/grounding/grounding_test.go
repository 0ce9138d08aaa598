package grounding

import (
	"testing"

	"github.com/cwolf/folio/pkg/folio/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func TestResolveDefaults(t *testing.T) {
	db := setupTestDB(t)
	r := NewResolver(db)

	cfg, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.Name != DefaultName {
		t.Errorf("Expected default name %q, got %q", DefaultName, cfg.Name)
	}
	if cfg.Content != DefaultContent {
		t.Errorf("Expected default content, got %q", cfg.Content)
	}
	if cfg.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("Expected default system prompt, got %q", cfg.SystemPrompt)
	}
}

func TestSaveThenResolve(t *testing.T) {
	db := setupTestDB(t)
	r := NewResolver(db)

	if err := r.Save("Bob", "bio text", ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.Name != "Bob" {
		t.Errorf("Expected name 'Bob', got %q", cfg.Name)
	}
	if cfg.Content != "bio text" {
		t.Errorf("Expected content 'bio text', got %q", cfg.Content)
	}
	// Empty stored prompt falls back to the built-in template
	if cfg.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("Expected default system prompt fallback, got %q", cfg.SystemPrompt)
	}
}

func TestSaveIsUpsert(t *testing.T) {
	db := setupTestDB(t)
	r := NewResolver(db)

	if err := r.Save("First", "first content", "first prompt"); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := r.Save("Second", "second content", "second prompt"); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	var count int64
	db.Model(&models.ChatbotContext{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected a single configuration record, got %d", count)
	}

	cfg, _ := r.Resolve()
	if cfg.Name != "Second" || cfg.Content != "second content" || cfg.SystemPrompt != "second prompt" {
		t.Errorf("Expected second save to win, got %+v", cfg)
	}
}

func TestSaveEmptyNameFallsBack(t *testing.T) {
	db := setupTestDB(t)
	r := NewResolver(db)

	if err := r.Save("", "content only", ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, _ := r.Resolve()
	if cfg.Name != DefaultName {
		t.Errorf("Expected default name fallback, got %q", cfg.Name)
	}
	if cfg.Content != "content only" {
		t.Errorf("Expected stored content, got %q", cfg.Content)
	}
}

func TestRenderSystemPrompt(t *testing.T) {
	got := RenderSystemPrompt("Hi {{name}}: {{context}}", "Ada", "loves math")
	want := "Hi Ada: loves math"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderSystemPromptReplacesAllOccurrences(t *testing.T) {
	got := RenderSystemPrompt("{{name}} and {{name}} know {{context}} and {{context}}", "Ada", "math")
	want := "Ada and Ada know math and math"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderSystemPromptResumeAlias(t *testing.T) {
	got := RenderSystemPrompt("About {{name}}:\n{{resume}}", "Ada", "resume body")
	want := "About Ada:\nresume body"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderSystemPromptIsLiteral(t *testing.T) {
	// Substitution is literal text replacement, not template expansion:
	// braces in the substituted values pass through untouched.
	got := RenderSystemPrompt("{{context}}", "Ada", "keep {{weird}} braces")
	want := "keep {{weird}} braces"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSystemPromptRendersResolvedConfig(t *testing.T) {
	db := setupTestDB(t)
	r := NewResolver(db)

	if err := r.Save("Ada", "loves math", "Hi {{name}}: {{context}}"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	prompt, err := r.SystemPrompt()
	if err != nil {
		t.Fatalf("SystemPrompt failed: %v", err)
	}
	if prompt != "Hi Ada: loves math" {
		t.Errorf("Expected rendered prompt, got %q", prompt)
	}
}
