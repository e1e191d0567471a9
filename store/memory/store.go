// Package memory provides an in-memory implementation of the document
// store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pawhub/leash/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a thread-safe in-memory document store.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]store.Document
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{collections: make(map[string][]store.Document)}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

func (s *Store) Find(_ context.Context, collection string, f *store.Filter, srt store.Sort, p store.Page) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]store.Document, 0)
	for _, doc := range s.collections[collection] {
		ok, err := eval(f, doc)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, doc)
		}
	}

	field := srt.Field
	if field == "" {
		field = "id"
	}
	sort.SliceStable(matched, func(i, j int) bool {
		c := compare(matched[i][field], matched[j][field])
		if srt.Descending {
			return c > 0
		}
		return c < 0
	})

	if p.Offset > 0 {
		if p.Offset >= len(matched) {
			return []store.Document{}, nil
		}
		matched = matched[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(matched) {
		matched = matched[:p.Limit]
	}

	out := make([]store.Document, len(matched))
	for i, doc := range matched {
		out[i] = doc.Clone()
	}
	return out, nil
}

func (s *Store) Count(_ context.Context, collection string, f *store.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, doc := range s.collections[collection] {
		ok, err := eval(f, doc)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (s *Store) Get(_ context.Context, collection, docID string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.collections[collection] {
		if doc.ID() == docID {
			return doc.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%s %q: %w", collection, docID, store.ErrNoDocument)
}

func (s *Store) Insert(_ context.Context, collection string, doc store.Document) error {
	if doc.ID() == "" {
		return fmt.Errorf("memory: insert into %s: document has no id", collection)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], doc.Clone())
	return nil
}

func (s *Store) Update(_ context.Context, collection string, doc store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.collections[collection] {
		if existing.ID() == doc.ID() {
			s.collections[collection][i] = doc.Clone()
			return nil
		}
	}
	return fmt.Errorf("%s %q: %w", collection, doc.ID(), store.ErrNoDocument)
}

func (s *Store) Delete(_ context.Context, collection, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collections[collection]
	for i, existing := range docs {
		if existing.ID() == docID {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s %q: %w", collection, docID, store.ErrNoDocument)
}
