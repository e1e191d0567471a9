package query

import (
	"context"
	"errors"
	"testing"

	"github.com/pawhub/leash/lookup"
	"github.com/pawhub/leash/schema"
	"github.com/pawhub/leash/store"
	"github.com/pawhub/leash/store/memory"
)

func testFactory(t *testing.T) (*Factory, *memory.Store) {
	t.Helper()
	reg := schema.NewRegistry().
		Register(schema.NewEntity(lookup.TypeAnimal, "paw_animals").
			Leaf("id", "name", "species", "adoptionStatus", "shelterId").
			Searchable("name", "species")).
		Register(schema.NewEntity(lookup.TypeNotification, "paw_notifications").
			Leaf("id", "userId", "kind"))
	if err := reg.Check(); err != nil {
		t.Fatal(err)
	}
	st := memory.New()
	ctx := context.Background()
	seed := []store.Document{
		{"id": "anim_1", "name": "Biscuit", "species": "dog", "adoptionStatus": "available", "shelterId": "shlt_1"},
		{"id": "anim_2", "name": "Clover", "species": "cat", "adoptionStatus": "available", "shelterId": "shlt_1"},
		{"id": "anim_3", "name": "Maple", "species": "dog", "adoptionStatus": "adopted", "shelterId": "shlt_2"},
	}
	for _, doc := range seed {
		if err := st.Insert(ctx, "paw_animals", doc); err != nil {
			t.Fatal(err)
		}
	}
	return NewFactory(st, reg, Limits{DefaultPageSize: 2, MaxPageSize: 5}), st
}

func TestCollectAppliesCriteria(t *testing.T) {
	f, _ := testFactory(t)
	l := lookup.NewAnimalLookup()
	l.Species = []string{"dog"}
	q, err := f.New(l)
	if err != nil {
		t.Fatal(err)
	}
	docs, err := q.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	for _, d := range docs {
		if d.Str("species") != "dog" {
			t.Fatalf("unexpected document %v", d)
		}
	}
}

func TestPageSizeDefaultsAndClamps(t *testing.T) {
	f, _ := testFactory(t)

	l := lookup.NewAnimalLookup()
	q, err := f.New(l)
	if err != nil {
		t.Fatal(err)
	}
	if q.Page().Limit != 2 {
		t.Fatalf("default limit = %d, want 2", q.Page().Limit)
	}

	l.Base().PageSize = 100
	q, err = f.New(l)
	if err != nil {
		t.Fatal(err)
	}
	if q.Page().Limit != 5 {
		t.Fatalf("clamped limit = %d, want 5", q.Page().Limit)
	}

	l.Base().PageSize = -3
	l.Base().Offset = -1
	q, err = f.New(l)
	if err != nil {
		t.Fatal(err)
	}
	if q.Page().Limit != 2 || q.Page().Offset != 0 {
		t.Fatalf("normalized page = %+v", q.Page())
	}
}

func TestCountIgnoresPaging(t *testing.T) {
	f, _ := testFactory(t)
	l := lookup.NewAnimalLookup()
	l.Base().PageSize = 1
	q, err := f.New(l)
	if err != nil {
		t.Fatal(err)
	}
	n, err := q.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
}

func TestCountScopedNarrows(t *testing.T) {
	f, _ := testFactory(t)
	l := lookup.NewAnimalLookup()
	l.Species = []string{"dog"}
	q, err := f.New(l)
	if err != nil {
		t.Fatal(err)
	}
	n, err := q.CountScoped(context.Background(), store.Eq("shelterId", "shlt_2"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("scoped count = %d, want 1", n)
	}
}

func TestFreeTextSearch(t *testing.T) {
	f, _ := testFactory(t)
	l := lookup.NewAnimalLookup()
	l.Base().Query = "bisc"
	q, err := f.New(l)
	if err != nil {
		t.Fatal(err)
	}
	docs, err := q.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID() != "anim_1" {
		t.Fatalf("got %v", docs)
	}
}

func TestFreeTextWithoutSearchFieldsFails(t *testing.T) {
	f, _ := testFactory(t)
	l := lookup.NewNotificationLookup()
	l.Base().Query = "adopted"
	if _, err := f.New(l); !errors.Is(err, schema.ErrInvalidPath) {
		t.Fatalf("err = %v, want ErrInvalidPath", err)
	}
}

func TestInvalidFieldFailsBeforeExecution(t *testing.T) {
	f, _ := testFactory(t)
	l := lookup.NewAnimalLookup()
	l.Base().SetFields("name", "microchipVendor")
	_, err := f.New(l)
	if !errors.Is(err, schema.ErrInvalidPath) {
		t.Fatalf("err = %v, want ErrInvalidPath", err)
	}
	var perr *schema.PathError
	if !errors.As(err, &perr) || perr.Segment != "microchipVendor" {
		t.Fatalf("path error = %v", err)
	}
}

func TestSortCanonicalizesAndRejectsUnknown(t *testing.T) {
	f, _ := testFactory(t)
	l := lookup.NewAnimalLookup()
	l.Base().SortBy = "Name"
	l.Base().SortDescending = true
	q, err := f.New(l)
	if err != nil {
		t.Fatal(err)
	}
	docs, err := q.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].Str("name") != "Maple" {
		t.Fatalf("got %v", docs)
	}

	l.Base().SortBy = "cuteness"
	if _, err := f.New(l); !errors.Is(err, schema.ErrInvalidPath) {
		t.Fatalf("err = %v, want ErrInvalidPath", err)
	}
}

func TestUnknownEntityTypeFails(t *testing.T) {
	f, _ := testFactory(t)
	if _, err := f.New(lookup.NewMessageLookup()); !errors.Is(err, schema.ErrInvalidPath) {
		t.Fatalf("err = %v, want ErrInvalidPath", err)
	}
}
