// Package docstore implements the hierarchical key-path document store the
// pipeline persists into. Documents live at slash-joined paths such as
// users/<uid>/decks/<deckID>/cards/<cardID>; a collection is the set of
// immediate children of a path prefix. Writes are either single upserts or
// atomic batches.
package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardsmith/cardsmith/internal/common"
)

// Document is a stored record together with its full path.
type Document struct {
	Path string
	Data map[string]any
}

// ID returns the last path segment, which is the document's identifier
// within its collection.
func (d Document) ID() string {
	i := strings.LastIndexByte(d.Path, '/')
	return d.Path[i+1:]
}

// Store is the outbound boundary to the document store.
type Store interface {
	// GetCollection returns the immediate child documents of path, ordered
	// by path.
	GetCollection(ctx context.Context, path string) ([]Document, error)

	// SetDocument upserts one document at path.
	SetDocument(ctx context.Context, path string, data map[string]any) error

	// Batch starts an atomic write set: either every staged write is
	// applied on Commit, or none is.
	Batch() Batch

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Batch is an atomic write set.
type Batch interface {
	Set(path string, data map[string]any)
	Commit(ctx context.Context) error
}

// Join builds a document path from segments. Segments must be non-empty and
// must not contain the separator.
func Join(segments ...string) (string, error) {
	for _, s := range segments {
		if s == "" {
			return "", fmt.Errorf("%w: empty path segment", common.ErrValidation)
		}
		if strings.ContainsRune(s, '/') {
			return "", fmt.Errorf("%w: path segment %q contains separator", common.ErrValidation, s)
		}
	}
	return strings.Join(segments, "/"), nil
}

// parentOf returns everything before the last separator. A single-segment
// path has an empty parent.
func parentOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// Paths of the per-user deck/card hierarchy.

// UserDecksPath is the collection path holding all decks of a user.
func UserDecksPath(userID string) (string, error) {
	return Join("users", userID, "decks")
}

// DeckPath is the document path of one deck.
func DeckPath(userID, deckID string) (string, error) {
	return Join("users", userID, "decks", deckID)
}

// DeckCardsPath is the collection path holding all cards of a deck.
func DeckCardsPath(userID, deckID string) (string, error) {
	return Join("users", userID, "decks", deckID, "cards")
}

// CardPath is the document path of one card.
func CardPath(userID, deckID, cardID string) (string, error) {
	return Join("users", userID, "decks", deckID, "cards", cardID)
}
