package models

import (
	"time"

	"github.com/google/uuid"
)

// CardType is the scheduling state of a card. The values are opaque to the
// pipeline here; the client's scheduler interprets them.
type CardType int

const (
	CardTypeNew CardType = iota
	CardTypeLearning
	CardTypeReview
	CardTypeRelearning
)

// Card is a single front/back flashcard belonging to exactly one deck.
// Due and CreatedAt are epoch milliseconds, set once at creation.
type Card struct {
	ID        string   `json:"id"`
	DeckID    string   `json:"deckId"`
	Type      CardType `json:"type"`
	Due       int64    `json:"due"`
	Front     string   `json:"front"`
	Back      string   `json:"back"`
	Tags      string   `json:"tags"`
	IsSynced  bool     `json:"isSynced"`
	CreatedAt int64    `json:"createdAt"`
}

// NewCard returns a card for the given deck with a generated ID. The card
// starts in the NEW state and is due immediately.
func NewCard(deckID, front, back string) *Card {
	now := time.Now().UnixMilli()
	return &Card{
		ID:        uuid.NewString(),
		DeckID:    deckID,
		Type:      CardTypeNew,
		Due:       now,
		Front:     front,
		Back:      back,
		CreatedAt: now,
	}
}
