// Package flashgen turns extracted text chunks into flashcard pairs using a
// text-completion model, with retry and backoff around transient provider
// failures.
package flashgen

import (
	"context"
	"fmt"
)

// CompletionClient is the outbound boundary to a text-completion provider.
// Implementations must classify transport failures into common.ProviderError
// kinds so the retry policy can tell rate limiting from upstream faults.
type CompletionClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

const promptTemplate = `Generate flashcards from this text. Return a JSON list with 'front' and 'back' keys. Return a max of only %d flashcards.

Text:
%s

Return only the JSON list, like:
[
  {"front": "...", "back": "..."},
  ...
]
`

// buildPrompt renders the fixed prompt template for one chunk.
func buildPrompt(chunk string, maxCards int) string {
	return fmt.Sprintf(promptTemplate, maxCards, chunk)
}
