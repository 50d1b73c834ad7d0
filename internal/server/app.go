// Package server initializes and runs the main application server.
// It wires storage, extraction, generation, and sync services together,
// starts the HTTP server, and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/server/archive"
	"github.com/cardsmith/cardsmith/internal/server/config"
	"github.com/cardsmith/cardsmith/internal/server/decks"
	"github.com/cardsmith/cardsmith/internal/server/docstore"
	"github.com/cardsmith/cardsmith/internal/server/extract"
	"github.com/cardsmith/cardsmith/internal/server/flashcards"
	"github.com/cardsmith/cardsmith/internal/server/flashgen"
	"github.com/cardsmith/cardsmith/internal/server/httpapi"
	"github.com/cardsmith/cardsmith/internal/server/syncer"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler *httpapi.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	store, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	extractor := extract.New(logger, c.ChunkSize)

	generator := flashgen.NewGenerator(
		flashgen.NewAnthropicClient(c.AnthropicAPIKey),
		logger,
		flashgen.Options{
			Model:       c.Model,
			MaxCards:    c.MaxCards,
			MaxRetries:  c.MaxRetries,
			CallTimeout: c.CallTimeout,
			Backoff:     flashgen.Backoff{Base: c.RetryBaseDelay, RateLimitPenalty: flashgen.DefaultBackoff().RateLimitPenalty},
		},
	)

	persister := decks.NewService(store, logger)

	var archiver flashcards.Archiver
	if c.S3Bucket != "" {
		a, err := archive.New(ctx, archive.Config{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		archiver = a
	}

	pipeline := flashcards.NewService(extractor, generator, persister, archiver, logger)
	syncService := syncer.NewService(store, logger)

	handler := httpapi.NewHandler(pipeline, syncService, generator, store, logger)

	return &App{config: c, logger: logger, handler: handler}, nil
}

// openStore selects the storage backend. An empty DSN selects the in-memory
// store, which is intended for development and tests only.
func openStore(ctx context.Context, c *config.Config, logger logging.Logger) (docstore.Store, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, using in-memory store")
		return docstore.NewMemoryStore(), nil
	}
	return docstore.OpenPostgres(ctx, c.DatabaseDSN)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	router := httpapi.NewRouter(app.handler, []byte(app.config.SecretKey), app.config.RequestTimeout)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "server error", "error", err.Error())
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}
}
