// Package audit defines the authorization decision audit record and its
// recorders. Every decision the engine reaches can be recorded: who asked,
// for what, and how the decision was sourced.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/pawhub/leash/id"
	"github.com/pawhub/leash/store"
)

// Entry is a single authorization decision audit record.
type Entry struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Permission string         `json:"permission"`
	EntityType string         `json:"entity_type"`
	LookupKey  string         `json:"lookup_key,omitempty"`
	Allowed    bool           `json:"allowed"`
	Source     string         `json:"source"`
	Reason     string         `json:"reason,omitempty"`
	EvalTimeNs int64          `json:"eval_time_ns"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Recorder persists audit entries. Recording failures must not block the
// decision path; the engine logs and continues.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

// Fill assigns the entry's id and timestamp if unset.
func (e *Entry) Fill() {
	if e.ID == "" {
		e.ID = id.New(id.PrefixAudit).String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
}

// ──────────────────────────────────────────────────
// Memory recorder
// ──────────────────────────────────────────────────

// MemoryRecorder keeps entries in memory. Intended for development and
// tests.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []*Entry
}

// NewMemoryRecorder creates an empty memory recorder.
func NewMemoryRecorder() *MemoryRecorder { return &MemoryRecorder{} }

// Record appends an entry.
func (r *MemoryRecorder) Record(_ context.Context, e *Entry) error {
	e.Fill()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

// Entries returns a snapshot of recorded entries.
func (r *MemoryRecorder) Entries() []*Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// ──────────────────────────────────────────────────
// Store recorder
// ──────────────────────────────────────────────────

// Collection is the document collection audit entries persist into.
const Collection = "paw_audit"

// StoreRecorder persists entries into the platform document store.
type StoreRecorder struct {
	store store.Store
}

// NewStoreRecorder creates a recorder writing into the given store.
func NewStoreRecorder(st store.Store) *StoreRecorder {
	return &StoreRecorder{store: st}
}

// Record persists an entry as a document.
func (r *StoreRecorder) Record(ctx context.Context, e *Entry) error {
	e.Fill()
	doc := store.Document{
		"id":         e.ID,
		"userId":     e.UserID,
		"permission": e.Permission,
		"entityType": e.EntityType,
		"lookupKey":  e.LookupKey,
		"allowed":    e.Allowed,
		"source":     e.Source,
		"reason":     e.Reason,
		"evalTimeNs": e.EvalTimeNs,
		"createdAt":  e.CreatedAt,
	}
	return r.store.Insert(ctx, Collection, doc)
}
