package flashgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/cardsmith/cardsmith/internal/common"
	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/server/models"
)

// Defaults of the reference retry policy.
const (
	DefaultMaxRetries  = 3
	DefaultMaxCards    = 10
	DefaultCallTimeout = 30 * time.Second
)

// Generator produces flashcards for one text chunk at a time. Chunks are
// independent: a permanent failure on one chunk does not affect others.
type Generator struct {
	client     CompletionClient
	logger     logging.Logger
	model      string
	maxCards   int
	maxRetries int
	timeout    time.Duration
	backoff    Backoff

	// seam for tests: replaces the real sleep between attempts.
	sleep func(ctx context.Context, d time.Duration) error
}

// Options tune the generator; zero values fall back to the defaults above.
type Options struct {
	Model       string
	MaxCards    int
	MaxRetries  int
	CallTimeout time.Duration
	Backoff     Backoff
}

// NewGenerator builds a Generator around the given completion client.
func NewGenerator(client CompletionClient, logger logging.Logger, opts Options) *Generator {
	if opts.MaxCards <= 0 {
		opts.MaxCards = DefaultMaxCards
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.Backoff == (Backoff{}) {
		opts.Backoff = DefaultBackoff()
	}
	return &Generator{
		client:     client,
		logger:     logger,
		model:      opts.Model,
		maxCards:   opts.MaxCards,
		maxRetries: opts.MaxRetries,
		timeout:    opts.CallTimeout,
		backoff:    opts.Backoff,
		sleep:      sleep,
	}
}

// Generate asks the model for up to maxCards front/back pairs for the chunk.
//
// Transport failures are retried with exponential backoff up to maxRetries
// attempts and then surface as a *common.ProviderError. Malformed model
// output is not a transient fault: it yields zero cards immediately, with no
// retries and no error.
func (g *Generator) Generate(ctx context.Context, chunk string) ([]models.Flashcard, error) {
	prompt := buildPrompt(chunk, g.maxCards)

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		g.logger.Debug(ctx, "requesting flashcards", "attempt", attempt+1, "max_attempts", g.maxRetries)

		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		raw, err := g.client.Complete(callCtx, g.model, prompt)
		cancel()

		if err == nil {
			cards, ok := parseFlashcards(raw)
			if !ok {
				g.logger.Warn(ctx, "model returned malformed flashcard JSON, yielding zero cards")
				return nil, nil
			}
			g.logger.Info(ctx, "generated flashcards", "count", len(cards))
			return cards, nil
		}

		// A cancelled request is the caller's doing, not the provider's.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		kind := common.ProviderKindOf(err)
		if errors.Is(err, context.DeadlineExceeded) {
			kind = common.ProviderTimeout
			err = common.NewProviderError(kind, err)
		}
		lastErr = err

		if attempt == g.maxRetries-1 {
			break
		}
		delay := g.backoff.Delay(attempt, kind)
		g.logger.Warn(ctx, "completion attempt failed, retrying",
			"attempt", attempt+1, "kind", string(kind), "delay", delay.String(), "error", err)
		if err := g.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	g.logger.Error(ctx, "all completion attempts exhausted", "attempts", g.maxRetries, "error", lastErr)
	var pe *common.ProviderError
	if errors.As(lastErr, &pe) {
		return nil, lastErr
	}
	return nil, common.NewProviderError(common.ProviderUnknown, lastErr)
}

// Probe issues a cheap completion to verify the provider is reachable.
func (g *Generator) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := g.client.Complete(probeCtx, g.model, "Hello")
	return err
}

// parseFlashcards strips optional markdown code fencing, parses the JSON
// array and keeps only items where both front and back are non-empty
// strings. The second return is false when the payload is not valid JSON.
func parseFlashcards(raw string) ([]models.Flashcard, bool) {
	content := stripFences(strings.TrimSpace(raw))

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, false
	}

	cards := make([]models.Flashcard, 0, len(items))
	for _, raw := range items {
		var item map[string]any
		if err := json.Unmarshal(raw, &item); err != nil {
			// Non-object entries are dropped, not fatal.
			continue
		}
		front, _ := item["front"].(string)
		back, _ := item["back"].(string)
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, models.Flashcard{Front: front, Back: back})
	}
	return cards, true
}

func stripFences(content string) string {
	switch {
	case strings.HasPrefix(content, "```json"):
		content = strings.TrimPrefix(content, "```json")
	case strings.HasPrefix(content, "```"):
		content = strings.TrimPrefix(content, "```")
	default:
		return content
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(content), "```"))
}
