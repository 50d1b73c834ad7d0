package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cardsmith/cardsmith/internal/dbx"
	"github.com/cardsmith/cardsmith/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresStore persists documents in a single table keyed by path, with the
// payload as JSONB. Batch commits run inside one transaction.
type PostgresStore struct {
	db *sql.DB
}

var (
	openMu     sync.Mutex
	openStores = make(map[string]*PostgresStore)
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// OpenPostgres opens (or returns the already-open) store for the DSN. The
// store is a process-wide shared resource: repeated calls with the same DSN
// return the same instance. Migrations run on first open.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	openMu.Lock()
	defer openMu.Unlock()

	if s, ok := openStores[dsn]; ok {
		return s, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	openStores[dsn] = s
	return s, nil
}

// NewPostgresStore wraps an existing connection; tests use it with sqlmock.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, ".")
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) GetCollection(ctx context.Context, path string) ([]Document, error) {
	return getCollection(ctx, s.db, path)
}

func (s *PostgresStore) SetDocument(ctx context.Context, path string, data map[string]any) error {
	return setDocument(ctx, s.db, path, data)
}

func (s *PostgresStore) Batch() Batch {
	return &postgresBatch{store: s}
}

type postgresBatch struct {
	store  *PostgresStore
	staged []Document
}

func (b *postgresBatch) Set(path string, data map[string]any) {
	b.staged = append(b.staged, Document{Path: path, Data: data})
}

func (b *postgresBatch) Commit(ctx context.Context) error {
	return dbx.WithTx(ctx, b.store.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, d := range b.staged {
			if err := setDocument(ctx, tx, d.Path, d.Data); err != nil {
				return err
			}
		}
		return nil
	})
}

func setDocument(ctx context.Context, db dbx.DBTX, path string, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	query := `
		INSERT INTO documents (path, parent, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (path)
		DO UPDATE SET parent = EXCLUDED.parent, data = EXCLUDED.data;
	`
	if _, err := db.ExecContext(ctx, query, path, parentOf(path), payload); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func getCollection(ctx context.Context, db dbx.DBTX, path string) ([]Document, error) {
	query := `SELECT path, data FROM documents WHERE parent = $1 ORDER BY path`
	rows, err := db.QueryContext(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []Document
	for rows.Next() {
		var (
			doc     Document
			payload []byte
		)
		if err := rows.Scan(&doc.Path, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &doc.Data); err != nil {
			return nil, fmt.Errorf("unmarshal document %s: %w", doc.Path, err)
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
