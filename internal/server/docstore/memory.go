package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and in dev mode when no
// database DSN is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

func (s *MemoryStore) GetCollection(ctx context.Context, path string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for p, data := range s.docs {
		if parentOf(p) == path {
			out = append(out, Document{Path: p, Data: cloneDoc(data)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (s *MemoryStore) SetDocument(ctx context.Context, path string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = cloneDoc(data)
	return nil
}

func (s *MemoryStore) Batch() Batch {
	return &memoryBatch{store: s}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len reports the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

type memoryBatch struct {
	store  *MemoryStore
	staged []Document
}

func (b *memoryBatch) Set(path string, data map[string]any) {
	b.staged = append(b.staged, Document{Path: path, Data: cloneDoc(data)})
}

func (b *memoryBatch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, d := range b.staged {
		b.store.docs[d.Path] = d.Data
	}
	return nil
}

// cloneDoc deep-copies a document through a JSON round trip so callers never
// share map state with the store.
func cloneDoc(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		// Documents come from json-marshalable models; treat anything else
		// as a programming error.
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	return out
}
