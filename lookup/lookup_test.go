package lookup

import (
	"testing"
	"time"

	"github.com/pawhub/leash/store"
)

func TestKeyIsOrderIndependent(t *testing.T) {
	a := NewAnimalLookup()
	a.ShelterIDs = []string{"shlt_1", "shlt_2"}
	a.Species = []string{"dog", "cat"}

	b := NewAnimalLookup()
	b.ShelterIDs = []string{"shlt_2", "shlt_1"}
	b.Species = []string{"cat", "dog"}

	if a.Key() != b.Key() {
		t.Fatalf("keys differ for equivalent lookups:\n%s\n%s", a.Key(), b.Key())
	}
}

func TestKeyOmitsUnsetCriteria(t *testing.T) {
	l := NewUserLookup()
	if got, want := l.Key(), TypeUser; got != want {
		t.Fatalf("empty lookup key = %q, want %q", got, want)
	}

	l.IDs = []string{"user_1"}
	l.base.PageSize = 25
	key := l.Key()
	if key == TypeUser {
		t.Fatal("key did not change after setting criteria")
	}

	other := NewUserLookup()
	other.IDs = []string{"user_1"}
	other.base.PageSize = 25
	if other.Key() != key {
		t.Fatalf("keys differ: %q vs %q", other.Key(), key)
	}
}

func TestKeyDistinguishesEntityTypes(t *testing.T) {
	u := NewUserLookup()
	u.IDs = []string{"x"}
	m := NewMessageLookup()
	m.IDs = []string{"x"}
	if u.Key() == m.Key() {
		t.Fatal("user and message lookups produced the same key")
	}
}

func TestKeyEncodesTimeBounds(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewAnimalLookup()
	a.BornAfter = &ts
	b := NewAnimalLookup()
	if a.Key() == b.Key() {
		t.Fatal("time bound not reflected in key")
	}
	offset := ts.In(time.FixedZone("X", 3600))
	c := NewAnimalLookup()
	c.BornAfter = &offset
	if a.Key() != c.Key() {
		t.Fatalf("same instant in different zones produced different keys:\n%s\n%s", a.Key(), c.Key())
	}
}

func TestSetFieldsDeduplicates(t *testing.T) {
	var b Base
	b.SetFields("name", "", "name", "shelter.city", "name")
	got := b.Fields()
	want := []string{"name", "shelter.city"}
	if len(got) != len(want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fields = %v, want %v", got, want)
		}
	}
}

func TestCriteriaOmitsUnset(t *testing.T) {
	l := NewApplicationLookup()
	if l.Criteria() != nil {
		t.Fatal("empty lookup produced a non-nil filter")
	}

	l.Statuses = []string{"pending"}
	f := l.Criteria()
	if f == nil {
		t.Fatal("expected a filter")
	}
	if f.Op != store.OpIn || f.Field != "status" {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestCriteriaUnreadOnly(t *testing.T) {
	l := NewMessageLookup()
	l.UnreadOnly = true
	f := l.Criteria()
	if f == nil || f.Op != store.OpEq || f.Field != "readAt" || f.Value != nil {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestOwnerCandidates(t *testing.T) {
	m := NewMessageLookup()
	m.SenderIDs = []string{"user_1"}
	m.RecipientIDs = []string{"user_2"}
	got := m.OwnerCandidates()
	if len(got) != 2 || got[0] != "user_1" || got[1] != "user_2" {
		t.Fatalf("owner candidates = %v", got)
	}

	s := NewShelterLookup()
	s.IDs = []string{"shlt_1"}
	if s.OwnerCandidates() != nil {
		t.Fatal("shelters must not report owner candidates")
	}
}

func TestDefaultRegistryCoversAllTypes(t *testing.T) {
	reg := DefaultRegistry()
	for _, typ := range []string{TypeUser, TypeShelter, TypeAnimal, TypeApplication, TypeMessage, TypeNotification} {
		l, err := reg.New(typ)
		if err != nil {
			t.Fatalf("New(%q): %v", typ, err)
		}
		if l.EntityType() != typ {
			t.Fatalf("New(%q) returned lookup for %q", typ, l.EntityType())
		}
	}
	if _, err := reg.New("litterbox"); err == nil {
		t.Fatal("expected error for unregistered type")
	}
}
