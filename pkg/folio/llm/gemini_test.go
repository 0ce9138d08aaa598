package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
)

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "gemini-1.5-flash")
	assert.Error(t, err)
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role:  RoleModel,
					Parts: []genai.Part{genai.Text("Hello"), genai.Text(", world")},
				},
			},
		},
	}

	assert.Equal(t, "Hello, world", extractText(resp))
}

func TestExtractTextEmptyResponse(t *testing.T) {
	assert.Equal(t, "", extractText(&genai.GenerateContentResponse{}))
	assert.Equal(t, "", extractText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: nil}},
	}))
}
