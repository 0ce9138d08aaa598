package llm

import "context"

// Provider role vocabulary. Gemini's chat API names the assistant side
// "model", and requires the history to start with a user turn or be empty.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one turn in the provider's role vocabulary.
type Message struct {
	Role    string
	Content string
}

// Generator produces one assistant reply for a user message given the prior
// conversation and a system instruction.
type Generator interface {
	Generate(ctx context.Context, systemInstruction string, history []Message, userMessage string) (string, error)
}
