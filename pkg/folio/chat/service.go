package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cwolf/folio/pkg/folio/grounding"
	"github.com/cwolf/folio/pkg/folio/llm"
	"github.com/cwolf/folio/pkg/folio/models"
	"gorm.io/gorm"
)

// Fixed user-visible replies. These are part of the conversational surface,
// not error plumbing: the transcript always gains a well-formed assistant
// message even when generation goes sideways.
const (
	EmptyReplyFallback = "I'm sorry, I couldn't generate a response. Please try again."
	GenericApology     = "Sorry, I'm having trouble connecting right now. Please try again later."
	UnconfiguredReply  = "The assistant isn't configured yet. Please contact the site owner."
)

var (
	// ErrEmptyMessage rejects blank or whitespace-only turns.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNotConfigured means the generation adapter has no credentials or
	// model configured; the turn is short-circuited before any persistence.
	ErrNotConfigured = errors.New("generation service is not configured")
)

// defaultGenerateTimeout bounds the generation call so a stalled provider
// can't leave a turn in flight forever.
const defaultGenerateTimeout = 60 * time.Second

// Greeting is the synthetic assistant message seeding an empty transcript.
func Greeting(name string) string {
	return fmt.Sprintf("Hi! I'm %s's AI assistant. Ask me anything about their experience, skills, or projects!", name)
}

// Service runs one generation round-trip: persist the incoming turn, build
// the grounded prompt, call the generator, persist the reply.
type Service struct {
	db        *gorm.DB
	generator llm.Generator
	resolver  *grounding.Resolver
	dev       bool
	timeout   time.Duration
}

// NewService creates the chat service. A nil generator means the deployment
// has no generation credentials; turns are then answered with a fixed
// configuration-error reply. dev switches the verbose diagnostic replies on.
func NewService(db *gorm.DB, generator llm.Generator, dev bool) *Service {
	return &Service{
		db:        db,
		generator: generator,
		resolver:  grounding.NewResolver(db),
		dev:       dev,
		timeout:   defaultGenerateTimeout,
	}
}

// Resolver exposes the grounding resolver the service was built with.
func (s *Service) Resolver() *grounding.Resolver {
	return s.resolver
}

// ErrorReply is the assistant message shown when a round-trip fails. In a
// development environment it carries the underlying error for debugging.
func (s *Service) ErrorReply(err error) string {
	if s.dev && err != nil {
		return fmt.Sprintf("Generation failed: %v", err)
	}
	return GenericApology
}

// SubmitTurn runs one round-trip for the given turn and prior transcript.
//
// Persistence is best effort throughout: a failed transcript write is logged
// and the round-trip continues, so the visitor still gets a reply. Only a
// blank message, a missing generator, or a failed generation call surface as
// errors to the caller.
func (s *Service) SubmitTurn(ctx context.Context, token, userText string, prior []Message) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", ErrEmptyMessage
	}

	if s.generator == nil {
		return "", ErrNotConfigured
	}

	if token != "" {
		s.persistGreeting(token, prior)
		s.persist(token, models.RoleUser, userText)
	}

	systemPrompt, err := s.resolver.SystemPrompt()
	if err != nil {
		return "", fmt.Errorf("failed to resolve grounding configuration: %w", err)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.generator.Generate(genCtx, systemPrompt, toProviderHistory(prior), userText)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		reply = EmptyReplyFallback
	}

	if token != "" {
		s.persist(token, models.RoleAssistant, reply)
	}

	return reply, nil
}

// persistGreeting back-fills the synthetic greeting on the first real turn:
// the greeting only exists in memory until a user actually engages, and only
// then is it worth a record. It is stored when the prior transcript is
// exactly the one unpersisted assistant greeting.
func (s *Service) persistGreeting(token string, prior []Message) {
	if len(prior) != 1 || prior[0].Role != models.RoleAssistant {
		return
	}

	var count int64
	if err := s.db.Model(&models.ChatMessage{}).Where("access_key = ?", token).Count(&count).Error; err != nil {
		log.Printf("Failed to check persisted history for %s: %v", token, err)
		return
	}
	if count > 0 {
		return
	}

	s.persist(token, prior[0].Role, prior[0].Content)
}

func (s *Service) persist(token, role, content string) {
	record := models.ChatMessage{
		AccessKey: token,
		Role:      role,
		Content:   content,
	}
	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("Failed to persist %s message for %s: %v", role, token, err)
	}
}
