// Package decks persists generated flashcards as one deck with one card per
// pair. Card writes are best-effort: losing one card must not invalidate an
// otherwise-successful deck.
package decks

import (
	"context"
	"fmt"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/server/docstore"
	"github.com/cardsmith/cardsmith/internal/server/models"
)

type Service struct {
	store  docstore.Store
	logger logging.Logger
}

func NewService(store docstore.Store, logger logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Persist creates one deck named deckName under the user, then one card per
// flashcard in input order. A failed card write is logged and skipped; the
// remaining flashcards are still attempted. The returned cards are the ones
// actually written, possibly fewer than the input. A failed deck write is
// fatal, since every card would be orphaned.
func (s *Service) Persist(ctx context.Context, userID, deckName string, flashcards []models.Flashcard) (*models.Deck, []models.Card, error) {
	deck := models.NewDeck(deckName)

	deckPath, err := docstore.DeckPath(userID, deck.ID)
	if err != nil {
		return nil, nil, err
	}
	deckDoc, err := models.ToDocument(deck)
	if err != nil {
		return nil, nil, fmt.Errorf("encode deck: %w", err)
	}
	if err := s.store.SetDocument(ctx, deckPath, deckDoc); err != nil {
		return nil, nil, fmt.Errorf("create deck: %w", err)
	}

	cards := make([]models.Card, 0, len(flashcards))
	for _, fc := range flashcards {
		if fc.Front == "" || fc.Back == "" {
			s.logger.Warn(ctx, "skipping flashcard with empty side", "deck_id", deck.ID)
			continue
		}
		card := models.NewCard(deck.ID, fc.Front, fc.Back)
		if err := s.createCard(ctx, userID, card); err != nil {
			s.logger.Warn(ctx, "card creation failed, skipping",
				"deck_id", deck.ID, "card_id", card.ID, "error", err)
			continue
		}
		cards = append(cards, *card)
	}

	s.logger.Info(ctx, "persisted deck", "deck_id", deck.ID,
		"cards_written", len(cards), "cards_requested", len(flashcards))
	return deck, cards, nil
}

func (s *Service) createCard(ctx context.Context, userID string, card *models.Card) error {
	path, err := docstore.CardPath(userID, card.DeckID, card.ID)
	if err != nil {
		return err
	}
	doc, err := models.ToDocument(card)
	if err != nil {
		return fmt.Errorf("encode card: %w", err)
	}
	return s.store.SetDocument(ctx, path, doc)
}
