// Package syncer reconciles a client-held deck/card snapshot with the
// store. The incoming snapshot is validated up front, written in one atomic
// batch, and the store's resulting state is read back and returned so the
// client gets a consistent post-sync view without a second round trip.
package syncer

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/cardsmith/cardsmith/internal/common"
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

// Sync writes the snapshot under the authenticated user's path in a single
// atomic batch and returns the user's full post-commit snapshot. Any
// validation violation fails the whole operation before a single write.
//
// Every path is derived from userID, never from the payload, so a snapshot
// cannot write into another user's hierarchy.
func (s *Service) Sync(ctx context.Context, userID string, snap models.SyncSnapshot) (*models.SyncSnapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}

	batch := s.store.Batch()
	for _, deck := range snap.Decks {
		path, err := docstore.DeckPath(userID, deck.ID)
		if err != nil {
			return nil, err
		}
		doc, err := models.ToDocument(deck)
		if err != nil {
			return nil, fmt.Errorf("encode deck %s: %w", deck.ID, err)
		}
		batch.Set(path, doc)
	}
	for _, card := range snap.Cards {
		path, err := docstore.CardPath(userID, card.DeckID, card.ID)
		if err != nil {
			return nil, err
		}
		doc, err := models.ToDocument(card)
		if err != nil {
			return nil, fmt.Errorf("encode card %s: %w", card.ID, err)
		}
		batch.Set(path, doc)
	}

	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("sync commit: %w", err)
	}
	s.logger.Info(ctx, "sync committed", "user_id", userID,
		"decks", len(snap.Decks), "cards", len(snap.Cards))

	return s.Snapshot(ctx, userID)
}

// Snapshot reads the user's complete deck and card collections.
func (s *Service) Snapshot(ctx context.Context, userID string) (*models.SyncSnapshot, error) {
	decksPath, err := docstore.UserDecksPath(userID)
	if err != nil {
		return nil, err
	}
	deckDocs, err := s.store.GetCollection(ctx, decksPath)
	if err != nil {
		return nil, fmt.Errorf("read decks: %w", err)
	}

	snap := &models.SyncSnapshot{Decks: []models.Deck{}, Cards: []models.Card{}}
	for _, doc := range deckDocs {
		var deck models.Deck
		if err := models.FromDocument(doc.Data, &deck); err != nil {
			return nil, fmt.Errorf("decode deck %s: %w", doc.Path, err)
		}
		snap.Decks = append(snap.Decks, deck)

		cardsPath, err := docstore.DeckCardsPath(userID, deck.ID)
		if err != nil {
			return nil, err
		}
		cardDocs, err := s.store.GetCollection(ctx, cardsPath)
		if err != nil {
			return nil, fmt.Errorf("read cards of deck %s: %w", deck.ID, err)
		}
		for _, cd := range cardDocs {
			var card models.Card
			if err := models.FromDocument(cd.Data, &card); err != nil {
				return nil, fmt.Errorf("decode card %s: %w", cd.Path, err)
			}
			snap.Cards = append(snap.Cards, card)
		}
	}
	return snap, nil
}

// validateSnapshot enforces the sync invariants: every deck needs an id,
// every card needs an id and a deckId.
func validateSnapshot(snap models.SyncSnapshot) error {
	for i := range snap.Decks {
		deck := &snap.Decks[i]
		err := validation.ValidateStruct(deck,
			validation.Field(&deck.ID, validation.Required),
		)
		if err != nil {
			return fmt.Errorf("%w: deck %d: %v", common.ErrValidation, i, err)
		}
	}
	for i := range snap.Cards {
		card := &snap.Cards[i]
		err := validation.ValidateStruct(card,
			validation.Field(&card.ID, validation.Required),
			validation.Field(&card.DeckID, validation.Required),
		)
		if err != nil {
			return fmt.Errorf("%w: card %d: %v", common.ErrValidation, i, err)
		}
	}
	return nil
}
