package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/server/flashcards"
	"github.com/cardsmith/cardsmith/internal/server/models"
)

// maxUploadBytes caps the size of an uploaded document.
const maxUploadBytes = 25 << 20

// FlashcardService runs the document-to-deck pipeline.
type FlashcardService interface {
	GenerateFromDocument(ctx context.Context, userID, fileName string, data []byte) (*flashcards.Result, error)
}

// SyncService commits a client snapshot and returns the stored state.
type SyncService interface {
	Sync(ctx context.Context, userID string, snap models.SyncSnapshot) (*models.SyncSnapshot, error)
}

// Prober checks that the completion provider answers.
type Prober interface {
	Probe(ctx context.Context) error
}

// Pinger checks that the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds API route handlers.
type Handler struct {
	flashcards FlashcardService
	syncer     SyncService
	prober     Prober // nil skips the provider check
	store      Pinger // nil skips the store check
	logger     logging.Logger
}

// NewHandler creates a new Handler.
func NewHandler(fc FlashcardService, sync SyncService, prober Prober, store Pinger, logger logging.Logger) *Handler {
	return &Handler{flashcards: fc, syncer: sync, prober: prober, store: store, logger: logger}
}

// GenerateFlashcards handles POST /api/flashcards/generate. It accepts a
// multipart form with the document under the "file" field, runs the
// extraction and generation pipeline, and responds with the persisted deck
// and its cards.
func (h *Handler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("no file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("could not read uploaded file"))
		return
	}

	result, err := h.flashcards.GenerateFromDocument(ctx, userID, header.Filename, data)
	if err != nil {
		status, kind, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error(ctx, "flashcard generation failed", "error", err.Error())
		} else {
			h.logger.Warn(ctx, "flashcard generation rejected", "status", status, "error", err.Error())
		}
		writeJSON(w, status, kindBody(kind, msg))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deck":  result.Deck,
		"cards": result.Cards,
	})
}

// Sync handles POST /api/sync. The body is a full snapshot of the client's
// decks and cards; the response is the server state read back after the
// commit.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	var snap models.SyncSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	stored, err := h.syncer.Sync(ctx, userID, snap)
	if err != nil {
		status, kind, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error(ctx, "sync failed", "error", err.Error())
		} else {
			h.logger.Warn(ctx, "sync rejected", "status", status, "error", err.Error())
		}
		writeJSON(w, status, kindBody(kind, msg))
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

// Health handles GET /api/health: a store ping plus a cheap provider probe.
// Any failing check degrades the response to 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]string{"status": "ok"}

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn(ctx, "store ping failed", "error", err.Error())
			body["store"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			body["store"] = "ok"
		}
	}

	if h.prober != nil {
		if err := h.prober.Probe(ctx); err != nil {
			h.logger.Warn(ctx, "provider probe failed", "error", err.Error())
			body["provider"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			body["provider"] = "ok"
		}
	}

	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}
