package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cwolf/folio/pkg/folio/llm"
	"github.com/cwolf/folio/pkg/folio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHydrateEmptySeedsGreeting(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeGenerator{reply: "ok"}, false)
	session := NewSession(svc, "KEY12345")

	require.NoError(t, session.Hydrate())

	assert.Equal(t, StateHydratedEmpty, session.State())
	transcript := session.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, models.RoleAssistant, transcript[0].Role)
	assert.Contains(t, transcript[0].Content, "AI assistant")

	// The greeting is synthetic: nothing was written to the store
	var count int64
	db.Model(&models.ChatMessage{}).Count(&count)
	assert.Zero(t, count)
}

func TestSessionHydrateLoadsExistingTranscript(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeGenerator{reply: "ok"}, false)

	db.Create(&models.ChatMessage{AccessKey: "KEY12345", Role: models.RoleAssistant, Content: "greeting"})
	db.Create(&models.ChatMessage{AccessKey: "KEY12345", Role: models.RoleUser, Content: "question"})

	session := NewSession(svc, "KEY12345")
	require.NoError(t, session.Hydrate())

	assert.Equal(t, StateHydrated, session.State())
	transcript := session.Transcript()
	require.Len(t, transcript, 2)
	// No second greeting was synthesized
	assert.Equal(t, "greeting", transcript[0].Content)
	assert.Equal(t, "question", transcript[1].Content)
}

func TestSessionHydrateTwiceIsNoop(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeGenerator{reply: "ok"}, false)
	session := NewSession(svc, "")

	require.NoError(t, session.Hydrate())
	require.NoError(t, session.Hydrate())
	assert.Len(t, session.Transcript(), 1)
}

func TestSessionSubmitTurnExtendsTranscript(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeGenerator{reply: "the answer"}, false)
	session := NewSession(svc, "")
	require.NoError(t, session.Hydrate())

	require.NoError(t, session.SubmitTurn(context.Background(), "the question"))

	assert.Equal(t, StateHydrated, session.State())
	transcript := session.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, Message{Role: models.RoleUser, Content: "the question"}, transcript[1])
	assert.Equal(t, Message{Role: models.RoleAssistant, Content: "the answer"}, transcript[2])
}

func TestSessionSubmitTurnRejectsBlank(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeGenerator{reply: "ok"}, false)
	session := NewSession(svc, "")
	require.NoError(t, session.Hydrate())

	err := session.SubmitTurn(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, session.Transcript(), 1)
}

func TestSessionGenerationFailureAppendsApology(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeGenerator{err: errors.New("upstream exploded")}, false)
	session := NewSession(svc, "")
	require.NoError(t, session.Hydrate())

	before := session.Transcript()

	// The round-trip failing is not an error from the caller's point of view
	require.NoError(t, session.SubmitTurn(context.Background(), "hello"))

	transcript := session.Transcript()
	require.Len(t, transcript, len(before)+2)
	assert.Equal(t, Message{Role: models.RoleAssistant, Content: GenericApology}, transcript[len(transcript)-1])
	assert.Equal(t, StateHydrated, session.State())
}

func TestSessionUnconfiguredAppendsFixedReply(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, false)
	session := NewSession(svc, "")
	require.NoError(t, session.Hydrate())

	require.NoError(t, session.SubmitTurn(context.Background(), "hello"))

	transcript := session.Transcript()
	assert.Equal(t, UnconfiguredReply, transcript[len(transcript)-1].Content)
}

// blockingGenerator holds every Generate call until released.
type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingGenerator) Generate(ctx context.Context, system string, history []llm.Message, message string) (string, error) {
	b.started <- struct{}{}
	<-b.release
	return "slow reply", nil
}

func TestSessionRejectsTurnWhileInFlight(t *testing.T) {
	db := setupTestDB(t)
	gen := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(db, gen, false)
	session := NewSession(svc, "")
	require.NoError(t, session.Hydrate())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, session.SubmitTurn(context.Background(), "first"))
	}()

	<-gen.started
	assert.Equal(t, StateAwaitingReply, session.State())

	err := session.SubmitTurn(context.Background(), "second")
	assert.ErrorIs(t, err, ErrTurnInFlight)

	close(gen.release)
	wg.Wait()

	transcript := session.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, "slow reply", transcript[2].Content)
}

func TestSessionTranscriptIsACopy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeGenerator{reply: "ok"}, false)
	session := NewSession(svc, "")
	require.NoError(t, session.Hydrate())

	snapshot := session.Transcript()
	require.NoError(t, session.SubmitTurn(context.Background(), "hello"))

	// The earlier snapshot is unaffected by later transitions
	assert.Len(t, snapshot, 1)
	assert.Len(t, session.Transcript(), 3)
}
