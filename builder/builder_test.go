package builder

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/pawhub/leash"
	"github.com/pawhub/leash/access"
	"github.com/pawhub/leash/lookup"
	"github.com/pawhub/leash/schema"
	"github.com/pawhub/leash/store"
	"github.com/pawhub/leash/store/memory"
)

type findCountingStore struct {
	store.Store
	finds atomic.Int64
}

func (c *findCountingStore) Find(ctx context.Context, collection string, f *store.Filter, s store.Sort, p store.Page) ([]store.Document, error) {
	c.finds.Add(1)
	return c.Store.Find(ctx, collection, f, s, p)
}

func testSchema() *schema.Registry {
	return schema.NewRegistry().
		Register(schema.NewEntity(lookup.TypeUser, "paw_users").
			Leaf("id", "email", "displayName")).
		Register(schema.NewEntity(lookup.TypeShelter, "paw_shelters").
			Leaf("id", "shelterName", "city").
			RefList("animals", lookup.TypeAnimal, "shelterId")).
		Register(schema.NewEntity(lookup.TypeAnimal, "paw_animals").
			Leaf("id", "name", "species", "shelterId").
			Ref("shelter", lookup.TypeShelter, "shelterId"))
}

func testBuilder(t *testing.T) (*Builder, *findCountingStore) {
	t.Helper()
	mem := memory.New()
	ctx := context.Background()
	seed := map[string][]store.Document{
		"paw_users": {
			{"id": "user_1", "email": "one@example.com", "displayName": "One"},
			{"id": "user_2", "email": "two@example.com", "displayName": "Two"},
		},
		"paw_shelters": {
			{"id": "shlt_1", "shelterName": "Happy Paws", "city": "Portland"},
			{"id": "shlt_2", "shelterName": "Second Chance", "city": "Austin"},
		},
		"paw_animals": {
			{"id": "anim_1", "name": "Biscuit", "species": "dog", "shelterId": "shlt_1"},
			{"id": "anim_2", "name": "Clover", "species": "cat", "shelterId": "shlt_1"},
			{"id": "anim_3", "name": "Maple", "species": "dog", "shelterId": "shlt_2"},
		},
	}
	for col, docs := range seed {
		for _, doc := range docs {
			if err := mem.Insert(ctx, col, doc); err != nil {
				t.Fatal(err)
			}
		}
	}
	st := &findCountingStore{Store: mem}
	rules := access.NewRules(&access.Rule{
		EntityType: lookup.TypeUser,
		OwnerField: "id",
		OwnerOnly:  []string{"email"},
		TrustedRoles: []string{leash.RoleAdmin},
	})
	return New(st, testSchema(), rules, 500, 8), st
}

func fetch(t *testing.T, b *Builder, collection string, ids ...string) []store.Document {
	t.Helper()
	docs, err := b.store.Find(context.Background(), collection, store.InStrings("id", ids), store.Sort{}, store.Page{})
	if err != nil {
		t.Fatal(err)
	}
	return docs
}

func TestBuildProjectsOnlyRequestedFields(t *testing.T) {
	b, _ := testBuilder(t)
	docs := fetch(t, b, "paw_animals", "anim_1")

	out, err := b.Build(context.Background(), leash.Identity{}, lookup.TypeAnimal, docs, []string{"id", "name"})
	if err != nil {
		t.Fatal(err)
	}
	want := store.Document{"id": "anim_1", "name": "Biscuit"}
	if !reflect.DeepEqual(out[0], want) {
		t.Fatalf("dto = %v, want %v", out[0], want)
	}
}

func TestBuildRefBatchesIntoOneQuery(t *testing.T) {
	b, st := testBuilder(t)
	docs := fetch(t, b, "paw_animals", "anim_1", "anim_2", "anim_3")

	before := st.finds.Load()
	out, err := b.Build(context.Background(), leash.Identity{}, lookup.TypeAnimal, docs, []string{"name", "shelter.city"})
	if err != nil {
		t.Fatal(err)
	}
	if got := st.finds.Load() - before; got != 1 {
		t.Fatalf("relation loads = %d, want 1", got)
	}

	for _, dto := range out {
		rel, ok := dto["shelter"].(store.Document)
		if !ok {
			t.Fatalf("dto missing shelter: %v", dto)
		}
		if rel.Str("city") == "" {
			t.Fatalf("shelter projection = %v", rel)
		}
		if _, leaked := rel["shelterName"]; leaked {
			t.Fatalf("unrequested field leaked: %v", rel)
		}
	}
}

func TestBuildRefListGroupsChildren(t *testing.T) {
	b, _ := testBuilder(t)
	docs := fetch(t, b, "paw_shelters", "shlt_1", "shlt_2")

	out, err := b.Build(context.Background(), leash.Identity{}, lookup.TypeShelter, docs, []string{"shelterName", "animals.name"})
	if err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{}
	for i, dto := range out {
		group, ok := dto["animals"].([]store.Document)
		if !ok {
			t.Fatalf("dto missing animals list: %v", dto)
		}
		counts[docs[i].ID()] = len(group)
	}
	if counts["shlt_1"] != 2 || counts["shlt_2"] != 1 {
		t.Fatalf("group sizes = %v", counts)
	}
}

func TestBuildRefListEmptyGroupIsEmptyList(t *testing.T) {
	b, _ := testBuilder(t)
	ctx := context.Background()
	if err := b.store.Insert(ctx, "paw_shelters", store.Document{"id": "shlt_3", "shelterName": "Quiet Home", "city": "Boise"}); err != nil {
		t.Fatal(err)
	}
	docs := fetch(t, b, "paw_shelters", "shlt_3")

	out, err := b.Build(ctx, leash.Identity{}, lookup.TypeShelter, docs, []string{"animals.name"})
	if err != nil {
		t.Fatal(err)
	}
	group, ok := out[0]["animals"].([]store.Document)
	if !ok || len(group) != 0 {
		t.Fatalf("dto = %v", out[0])
	}
}

func TestBuildOwnerOnlyFieldsPerRow(t *testing.T) {
	b, _ := testBuilder(t)
	docs := fetch(t, b, "paw_users", "user_1", "user_2")

	out, err := b.Build(context.Background(), leash.Identity{UserID: "user_1"}, lookup.TypeUser, docs, []string{"id", "email", "displayName"})
	if err != nil {
		t.Fatal(err)
	}
	for i, dto := range out {
		_, hasEmail := dto["email"]
		own := docs[i].ID() == "user_1"
		if own != hasEmail {
			t.Fatalf("row %s: email present=%v", docs[i].ID(), hasEmail)
		}
		if dto.Str("displayName") == "" {
			t.Fatalf("row %s lost unrestricted field", docs[i].ID())
		}
	}
}

func TestBuildTrustedRoleSeesAllRows(t *testing.T) {
	b, _ := testBuilder(t)
	docs := fetch(t, b, "paw_users", "user_1", "user_2")

	admin := leash.Identity{UserID: "user_admin", Roles: []string{leash.RoleAdmin}}
	out, err := b.Build(context.Background(), admin, lookup.TypeUser, docs, []string{"email"})
	if err != nil {
		t.Fatal(err)
	}
	for i, dto := range out {
		if dto.Str("email") == "" {
			t.Fatalf("row %s: email hidden from trusted role", docs[i].ID())
		}
	}
}

func TestBuildDanglingRefLeftUnset(t *testing.T) {
	b, _ := testBuilder(t)
	ctx := context.Background()
	if err := b.store.Insert(ctx, "paw_animals", store.Document{"id": "anim_4", "name": "Ghost", "shelterId": "shlt_missing"}); err != nil {
		t.Fatal(err)
	}
	docs := fetch(t, b, "paw_animals", "anim_4")

	out, err := b.Build(ctx, leash.Identity{}, lookup.TypeAnimal, docs, []string{"name", "shelter.city"})
	if err != nil {
		t.Fatal(err)
	}
	if _, present := out[0]["shelter"]; present {
		t.Fatalf("dangling reference should stay unset: %v", out[0])
	}
}

func TestBuildDepthBound(t *testing.T) {
	b, _ := testBuilder(t)
	shallow := New(b.store, testSchema(), access.NewRules(), 500, 1)
	docs := fetch(t, b, "paw_animals", "anim_1")

	_, err := shallow.Build(context.Background(), leash.Identity{}, lookup.TypeAnimal, docs, []string{"shelter.animals.name"})
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("err = %v, want ErrDepthExceeded", err)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	b, _ := testBuilder(t)
	out, err := b.Build(context.Background(), leash.Identity{}, lookup.TypeAnimal, nil, []string{"name"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("out = %v", out)
	}
}
