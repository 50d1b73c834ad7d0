package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/server/decks"
	"github.com/cardsmith/cardsmith/internal/server/docstore"
	"github.com/cardsmith/cardsmith/internal/server/extract"
	"github.com/cardsmith/cardsmith/internal/server/flashcards"
	"github.com/cardsmith/cardsmith/internal/server/flashgen"
	"github.com/cardsmith/cardsmith/internal/server/models"
	"github.com/cardsmith/cardsmith/internal/server/syncer"
)

// textEngine returns fixed extracted text regardless of the input bytes.
type textEngine struct{ text string }

func (e *textEngine) ExtractText(ctx context.Context, data []byte) (string, error) {
	return e.text, nil
}

// countingClient returns one flashcard per prompt and remembers how many
// completions were requested.
type countingClient struct{ calls int }

func (c *countingClient) Complete(ctx context.Context, model, prompt string) (string, error) {
	c.calls++
	return `[{"front": "Q", "back": "A"}]`, nil
}

// TestGenerateThenSync_EndToEnd drives the real service chain (extraction
// with a stub engine, generation with a scripted completion client, memory
// store persistence, sync read-back) through the HTTP surface.
func TestGenerateThenSync_EndToEnd(t *testing.T) {
	logger := logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	store := docstore.NewMemoryStore()

	// 2500 words with chunk size 1000 must produce exactly 3 completions.
	words := make([]string, 2500)
	for i := range words {
		words[i] = "w"
	}
	extractor := extract.NewWithEngines(logger, &textEngine{text: strings.Join(words, " ")}, &textEngine{}, 1000)

	client := &countingClient{}
	generator := flashgen.NewGenerator(client, logger, flashgen.Options{Model: "test-model"})

	pipeline := flashcards.NewService(extractor, generator, decks.NewService(store, logger), nil, logger)
	syncService := syncer.NewService(store, logger)

	h := NewHandler(pipeline, syncService, nil, store, logger)
	srv := httptest.NewServer(NewRouter(h, testSecret, time.Minute))
	t.Cleanup(srv.Close)

	// Generate a deck from a "PDF".
	body, contentType := multipartBody(t, "file", "lecture.pdf", []byte("%PDF-1.4 stub"))
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/flashcards/generate", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "student-1"))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var generated struct {
		Deck  models.Deck   `json:"deck"`
		Cards []models.Card `json:"cards"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&generated))

	assert.Equal(t, 3, client.calls, "2500 words / 1000-word chunks = 3 completions")
	assert.Equal(t, "lecture.pdf", generated.Deck.Name)
	require.Len(t, generated.Cards, 3)
	for _, c := range generated.Cards {
		assert.Equal(t, generated.Deck.ID, c.DeckID)
	}

	// An empty sync must return the persisted deck and cards.
	req, err = http.NewRequest(http.MethodPost, srv.URL+"/api/sync", strings.NewReader(`{"decks":[],"cards":[]}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "student-1"))

	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var snap models.SyncSnapshot
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&snap))
	require.Len(t, snap.Decks, 1)
	assert.Equal(t, generated.Deck.ID, snap.Decks[0].ID)
	assert.Len(t, snap.Cards, 3)

	// Another user sees nothing.
	req, err = http.NewRequest(http.MethodPost, srv.URL+"/api/sync", strings.NewReader(`{"decks":[],"cards":[]}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "student-2"))

	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp3.Body.Close()
	require.Equal(t, http.StatusOK, resp3.StatusCode)

	var other models.SyncSnapshot
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&other))
	assert.Empty(t, other.Decks)
	assert.Empty(t, other.Cards)
}
