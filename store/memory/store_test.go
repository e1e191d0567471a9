package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pawhub/leash/store"
)

func seed(t *testing.T) *Store {
	t.Helper()
	s := New()
	ctx := context.Background()
	docs := []store.Document{
		{"id": "a1", "name": "Biscuit", "species": "dog", "shelterId": "s1", "birthDate": time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"id": "a2", "name": "Clover", "species": "cat", "shelterId": "s1", "birthDate": time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"id": "a3", "name": "Maple", "species": "dog", "shelterId": "s2", "birthDate": time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, d := range docs {
		if err := s.Insert(ctx, "animals", d); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestFindEq(t *testing.T) {
	s := seed(t)
	docs, err := s.Find(context.Background(), "animals", store.Eq("species", "dog"), store.Sort{}, store.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 dogs, got %d", len(docs))
	}
	if docs[0].ID() != "a1" || docs[1].ID() != "a3" {
		t.Fatalf("expected id order, got %s %s", docs[0].ID(), docs[1].ID())
	}
}

func TestFindAndOrNin(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	f := store.And(
		store.Eq("shelterId", "s1"),
		store.Or(store.Eq("species", "dog"), store.Eq("species", "cat")),
		store.NinStrings("id", []string{"a2"}),
	)
	docs, err := s.Find(ctx, "animals", f, store.Sort{}, store.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID() != "a1" {
		t.Fatalf("expected only a1, got %v", docs)
	}
}

func TestFindDateRange(t *testing.T) {
	s := seed(t)
	f := store.And(
		store.Gte("birthDate", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
		store.Lte("birthDate", time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)),
	)
	docs, err := s.Find(context.Background(), "animals", f, store.Sort{}, store.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID() != "a1" {
		t.Fatalf("expected a1 in range, got %v", docs)
	}
}

func TestFindContains(t *testing.T) {
	s := seed(t)
	docs, err := s.Find(context.Background(), "animals", store.Contains("name", "lov"), store.Sort{}, store.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID() != "a2" {
		t.Fatalf("expected Clover, got %v", docs)
	}
}

func TestFindSortAndPage(t *testing.T) {
	s := seed(t)
	docs, err := s.Find(context.Background(), "animals", nil, store.Sort{Field: "name", Descending: true}, store.Page{Offset: 1, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Str("name") != "Clover" {
		t.Fatalf("expected Clover on page, got %v", docs)
	}
}

func TestFindDescendingSortWithEqualKeys(t *testing.T) {
	s := seed(t)
	docs, err := s.Find(context.Background(), "animals", nil, store.Sort{Field: "species", Descending: true}, store.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(docs))
	}
	// dog > cat; equal keys keep insertion order under a stable sort.
	if docs[0].ID() != "a1" || docs[1].ID() != "a3" || docs[2].ID() != "a2" {
		t.Fatalf("descending order = %s %s %s", docs[0].ID(), docs[1].ID(), docs[2].ID())
	}
}

func TestFindEmptyInMatchesNothing(t *testing.T) {
	s := seed(t)
	docs, err := s.Find(context.Background(), "animals", store.InStrings("id", nil), store.Sort{}, store.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Fatalf("empty In must match nothing, got %v", docs)
	}
}

func TestCountIgnoresPaging(t *testing.T) {
	s := seed(t)
	n, err := s.Count(context.Background(), "animals", store.Eq("species", "dog"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}
}

func TestGetUpdateDelete(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	doc, err := s.Get(ctx, "animals", "a1")
	if err != nil {
		t.Fatal(err)
	}
	doc["name"] = "Banjo"
	if err := s.Update(ctx, "animals", doc); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(ctx, "animals", "a1")
	if got.Str("name") != "Banjo" {
		t.Fatalf("update not applied: %v", got)
	}

	if err := s.Delete(ctx, "animals", "a1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "animals", "a1"); !errors.Is(err, store.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestFindReturnsClones(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	docs, _ := s.Find(ctx, "animals", store.Eq("id", "a1"), store.Sort{}, store.Page{})
	docs[0]["name"] = "mutated"
	again, _ := s.Get(ctx, "animals", "a1")
	if again.Str("name") != "Biscuit" {
		t.Fatal("stored document must not observe caller mutation")
	}
}
