package flashgen

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/cardsmith/cardsmith/internal/common"
	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/server/models"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type scriptedResult struct {
	text string
	err  error
}

// scriptedClient returns one scripted result per call, in order. Calls past
// the script repeat the last result.
type scriptedClient struct {
	results []scriptedResult
	calls   int
}

func (c *scriptedClient) Complete(ctx context.Context, model, prompt string) (string, error) {
	i := c.calls
	if i >= len(c.results) {
		i = len(c.results) - 1
	}
	c.calls++
	r := c.results[i]
	return r.text, r.err
}

// -------- helpers --------

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func upstreamErr() error {
	return common.NewProviderError(common.ProviderUpstream, errors.New("502 bad gateway"))
}

func rateLimitErr() error {
	return common.NewProviderError(common.ProviderRateLimited, errors.New("429 too many requests"))
}

// newTestGenerator wires a generator whose sleeps are recorded instead of
// performed.
func newTestGenerator(client CompletionClient) (*Generator, *[]time.Duration) {
	g := NewGenerator(client, testLogger(), Options{Model: "test-model"})
	delays := &[]time.Duration{}
	g.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return g, delays
}

// -------- tests --------

func TestGenerate_Success(t *testing.T) {
	client := &scriptedClient{results: []scriptedResult{
		{text: `[{"front":"Q1","back":"A1"},{"front":"Q2","back":"A2"}]`},
	}}
	g, delays := newTestGenerator(client)

	cards, err := g.Generate(context.Background(), "some chunk")

	require.NoError(t, err)
	require.Equal(t, []models.Flashcard{{Front: "Q1", Back: "A1"}, {Front: "Q2", Back: "A2"}}, cards)
	require.Equal(t, 1, client.calls)
	require.Empty(t, *delays)
}

func TestGenerate_StripsMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "json fence", text: "```json\n[{\"front\":\"Q\",\"back\":\"A\"}]\n```"},
		{name: "bare fence", text: "```\n[{\"front\":\"Q\",\"back\":\"A\"}]\n```"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newTestGenerator(&scriptedClient{results: []scriptedResult{{text: tc.text}}})

			cards, err := g.Generate(context.Background(), "chunk")

			require.NoError(t, err)
			require.Equal(t, []models.Flashcard{{Front: "Q", Back: "A"}}, cards)
		})
	}
}

func TestGenerate_FiltersIncompleteItems(t *testing.T) {
	g, _ := newTestGenerator(&scriptedClient{results: []scriptedResult{
		{text: `[{"front":"Q1","back":"A1"},{"front":"","back":"A2"},{"front":"Q3"},"nonsense"]`},
	}})

	cards, err := g.Generate(context.Background(), "chunk")

	require.NoError(t, err)
	require.Equal(t, []models.Flashcard{{Front: "Q1", Back: "A1"}}, cards)
}

func TestGenerate_MalformedJSONReturnsEmptyWithoutRetry(t *testing.T) {
	client := &scriptedClient{results: []scriptedResult{
		{text: "I cannot generate flashcards for this text."},
	}}
	g, delays := newTestGenerator(client)

	cards, err := g.Generate(context.Background(), "chunk")

	require.NoError(t, err)
	require.Empty(t, cards)
	require.Equal(t, 1, client.calls, "malformed output must not be retried")
	require.Empty(t, *delays)
}

func TestGenerate_RetriesUpstreamFaultsWithIncreasingDelays(t *testing.T) {
	client := &scriptedClient{results: []scriptedResult{
		{err: upstreamErr()},
		{err: upstreamErr()},
		{err: upstreamErr()},
		{text: `[{"front":"Q","back":"A"}]`},
	}}
	g, delays := newTestGenerator(client)
	g.maxRetries = 4

	cards, err := g.Generate(context.Background(), "chunk")

	require.NoError(t, err)
	require.Equal(t, []models.Flashcard{{Front: "Q", Back: "A"}}, cards)
	require.Equal(t, 4, client.calls)
	require.Len(t, *delays, 3)
	for i := 1; i < len(*delays); i++ {
		require.Greater(t, (*delays)[i], (*delays)[i-1], "delays must strictly increase")
	}
}

func TestGenerate_ExhaustionSurfacesTypedError(t *testing.T) {
	client := &scriptedClient{results: []scriptedResult{{err: upstreamErr()}}}
	g, delays := newTestGenerator(client)

	_, err := g.Generate(context.Background(), "chunk")

	require.Error(t, err)
	require.Equal(t, common.ProviderUpstream, common.ProviderKindOf(err))
	require.Equal(t, DefaultMaxRetries, client.calls)
	require.Len(t, *delays, DefaultMaxRetries-1)
}

func TestGenerate_RateLimitGetsExtraPenalty(t *testing.T) {
	rl := &scriptedClient{results: []scriptedResult{{err: rateLimitErr()}}}
	up := &scriptedClient{results: []scriptedResult{{err: upstreamErr()}}}

	gRL, rlDelays := newTestGenerator(rl)
	gUp, upDelays := newTestGenerator(up)

	_, _ = gRL.Generate(context.Background(), "chunk")
	_, _ = gUp.Generate(context.Background(), "chunk")

	require.NotEmpty(t, *rlDelays)
	require.NotEmpty(t, *upDelays)
	require.Equal(t, (*upDelays)[0]+gRL.backoff.RateLimitPenalty, (*rlDelays)[0])
}

func TestGenerate_CallerCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{results: []scriptedResult{{err: upstreamErr()}}}
	g, _ := newTestGenerator(client)

	_, err := g.Generate(ctx, "chunk")

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, client.calls)
}

func TestDefaultBackoff(t *testing.T) {
	b := DefaultBackoff()

	require.Equal(t, 2*time.Second, b.Base)
	require.Equal(t, 5*time.Second, b.RateLimitPenalty)

	// Callers override the base while keeping the default penalty.
	custom := Backoff{Base: time.Second, RateLimitPenalty: DefaultBackoff().RateLimitPenalty}
	require.Equal(t, 6*time.Second, custom.Delay(0, common.ProviderRateLimited))
}

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{Base: 2 * time.Second, RateLimitPenalty: 5 * time.Second}

	require.Equal(t, 2*time.Second, b.Delay(0, common.ProviderUpstream))
	require.Equal(t, 4*time.Second, b.Delay(1, common.ProviderUpstream))
	require.Equal(t, 8*time.Second, b.Delay(2, common.ProviderTimeout))
	require.Equal(t, 7*time.Second, b.Delay(0, common.ProviderRateLimited))
}

func TestClassifyStatus(t *testing.T) {
	require.Equal(t, common.ProviderRateLimited, classifyStatus(429))
	require.Equal(t, common.ProviderUpstream, classifyStatus(502))
	require.Equal(t, common.ProviderUpstream, classifyStatus(500))
	require.Equal(t, common.ProviderTimeout, classifyStatus(408))
	require.Equal(t, common.ProviderUnknown, classifyStatus(400))
}
