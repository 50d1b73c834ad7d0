// Package flashcards orchestrates the generation pipeline: extraction,
// per-chunk flashcard generation and deck persistence.
package flashcards

import (
	"context"
	"fmt"
	"time"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/server/models"
)

// Extractor produces ordered text chunks from raw file bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]string, error)
}

// Generator produces flashcards for one chunk.
type Generator interface {
	Generate(ctx context.Context, chunk string) ([]models.Flashcard, error)
}

// Persister writes one deck plus its cards.
type Persister interface {
	Persist(ctx context.Context, userID, deckName string, flashcards []models.Flashcard) (*models.Deck, []models.Card, error)
}

// Archiver stores the raw uploaded document for later reference. It is
// optional and always best-effort.
type Archiver interface {
	Archive(ctx context.Context, userID, fileName string, data []byte) error
}

// Result is the outcome of one generation request.
type Result struct {
	Deck  *models.Deck
	Cards []models.Card
}

type Service struct {
	extractor Extractor
	generator Generator
	persister Persister
	archiver  Archiver // nil disables archival
	logger    logging.Logger
}

func NewService(extractor Extractor, generator Generator, persister Persister, archiver Archiver, logger logging.Logger) *Service {
	return &Service{
		extractor: extractor,
		generator: generator,
		persister: persister,
		archiver:  archiver,
		logger:    logger,
	}
}

// GenerateFromDocument runs the whole pipeline for one uploaded file. Chunks
// are processed sequentially and independently; a chunk that produces no
// cards (malformed model output) degrades the yield but a provider failure
// aborts the request with a typed error. The deck is named after the
// uploaded file.
func (s *Service) GenerateFromDocument(ctx context.Context, userID, fileName string, data []byte) (*Result, error) {
	chunks, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, err
	}

	var flashcards []models.Flashcard
	for i, chunk := range chunks {
		cards, err := s.generator.Generate(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		flashcards = append(flashcards, cards...)
	}

	deck, cards, err := s.persister.Persist(ctx, userID, fileName, flashcards)
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		// Fire and forget: the upload archive must never delay or fail the
		// response. Detached from the request's cancellation.
		go func() {
			actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
			defer cancel()
			if err := s.archiver.Archive(actx, userID, fileName, data); err != nil {
				s.logger.Warn(actx, "failed to archive uploaded document",
					"user_id", userID, "file_name", fileName, "error", err)
			}
		}()
	}

	return &Result{Deck: deck, Cards: cards}, nil
}
