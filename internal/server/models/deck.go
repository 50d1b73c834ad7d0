// Package models defines the deck/card records persisted in the document
// store and the transient shapes exchanged with the generation pipeline.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DeckState marks whether a deck is in active rotation or archived.
type DeckState string

const (
	DeckStateActive   DeckState = "ACTIVE"
	DeckStateArchived DeckState = "ARCHIVED"
)

// DefaultDeckColor is the display hint assigned to generated decks.
const DefaultDeckColor = "#6366F1"

// Deck is a named collection of flashcards owned by exactly one user.
// CreatedAt is set once at creation (epoch seconds) and never mutated.
type Deck struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Color         string    `json:"color"`
	IsSynced      bool      `json:"isSynced"`
	IsPublic      bool      `json:"isPublic"`
	State         DeckState `json:"state"`
	StudySchedule int       `json:"studySchedule"`
	Streak        int       `json:"streak"`
	CreatedAt     int64     `json:"createdAt"`
}

// NewDeck returns a deck with a generated ID and default display settings.
func NewDeck(name string) *Deck {
	return &Deck{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     DefaultDeckColor,
		IsSynced:  false,
		IsPublic:  true,
		State:     DeckStateActive,
		CreatedAt: time.Now().Unix(),
	}
}
