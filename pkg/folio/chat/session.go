package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/cwolf/folio/pkg/folio/models"
)

// State names one phase of a session's lifecycle.
type State string

const (
	// StateUninitialized is a session before hydration.
	StateUninitialized State = "uninitialized"
	// StateHydratedEmpty means no prior messages were found; the transcript
	// was seeded with the synthetic greeting.
	StateHydratedEmpty State = "hydrated_empty"
	// StateHydrated means the transcript holds at least one exchanged turn.
	StateHydrated State = "hydrated"
	// StateAwaitingReply means a turn is in flight and input is locked.
	StateAwaitingReply State = "awaiting_reply"
)

// ErrTurnInFlight rejects a submission while a previous turn is still
// awaiting its reply.
var ErrTurnInFlight = errors.New("a turn is already in flight")

// Session holds one conversation keyed by access token. The transcript is an
// immutable ordered slice replaced wholesale on every transition, so state
// can be asserted without racing an in-place append.
//
// A failed round-trip is not an error from the session's point of view: the
// transcript gains an apology message and the session stays usable.
type Session struct {
	mu         sync.Mutex
	svc        *Service
	token      string
	state      State
	transcript []Message
}

// NewSession creates an unhydrated session for the given access token
// (which may be empty for anonymous, unpersisted conversations).
func NewSession(svc *Service, token string) *Session {
	return &Session{svc: svc, token: token, state: StateUninitialized}
}

// Hydrate loads the persisted transcript, seeding a synthetic greeting when
// nothing was found (or no token was supplied). Hydrating twice is a no-op.
func (s *Session) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return nil
	}

	var history []Message
	if s.token != "" {
		var err error
		history, err = LoadHistory(s.svc.db, s.token)
		if err != nil {
			return err
		}
	}

	if len(history) == 0 {
		cfg, err := s.svc.resolver.Resolve()
		if err != nil {
			return err
		}
		s.transcript = []Message{{Role: models.RoleAssistant, Content: Greeting(cfg.Name)}}
		s.state = StateHydratedEmpty
		return nil
	}

	s.transcript = history
	s.state = StateHydrated
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the current transcript.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// SubmitTurn submits one user turn. The user message is appended to the
// transcript immediately and input locks until the round-trip completes;
// failures append an apology reply instead of propagating. Only a blank
// message or an already-in-flight turn are rejected.
func (s *Session) SubmitTurn(ctx context.Context, userText string) error {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == StateAwaitingReply {
		s.mu.Unlock()
		return ErrTurnInFlight
	}
	prior := s.transcript
	next := make([]Message, len(prior), len(prior)+2)
	copy(next, prior)
	next = append(next, Message{Role: models.RoleUser, Content: userText})
	s.transcript = next
	s.state = StateAwaitingReply
	s.mu.Unlock()

	reply, err := s.svc.SubmitTurn(ctx, s.token, userText, prior)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			reply = UnconfiguredReply
		} else {
			reply = s.svc.ErrorReply(err)
		}
	}

	s.mu.Lock()
	final := make([]Message, len(next), len(next)+1)
	copy(final, next)
	final = append(final, Message{Role: models.RoleAssistant, Content: reply})
	s.transcript = final
	s.state = StateHydrated
	s.mu.Unlock()
	return nil
}
