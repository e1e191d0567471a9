package audit

import (
	"context"
	"strings"
	"testing"

	"github.com/pawhub/leash/store/memory"
)

func TestMemoryRecorder(t *testing.T) {
	r := NewMemoryRecorder()
	err := r.Record(context.Background(), &Entry{
		UserID:     "user_1",
		Permission: "animals:browse",
		EntityType: "animal",
		Allowed:    true,
		Source:     "permission",
	})
	if err != nil {
		t.Fatal(err)
	}
	entries := r.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	e := entries[0]
	if !strings.HasPrefix(e.ID, "adt_") {
		t.Fatalf("id = %q", e.ID)
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("timestamp not filled")
	}
}

func TestStoreRecorderPersists(t *testing.T) {
	st := memory.New()
	r := NewStoreRecorder(st)
	ctx := context.Background()

	e := &Entry{UserID: "user_1", Permission: "users:browse", EntityType: "user", Allowed: false, Source: "none"}
	if err := r.Record(ctx, e); err != nil {
		t.Fatal(err)
	}

	doc, err := st.Get(ctx, Collection, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Str("permission") != "users:browse" {
		t.Fatalf("doc = %v", doc)
	}
	if allowed, _ := doc["allowed"].(bool); allowed {
		t.Fatal("allowed flag lost")
	}
}
