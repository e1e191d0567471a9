package policy

import (
	"strings"
	"testing"
)

func TestAllowsExactPermission(t *testing.T) {
	set := NewSet(
		Policy{Permission: "animals:browse", Roles: []string{"admin", "adopter"}},
		Policy{Permission: "animals:manage", Roles: []string{"admin"}, AffiliatedRoles: []string{"shelter_admin"}},
	)
	if !set.Allows("animals:browse", []string{"adopter"}) {
		t.Fatal("adopter should browse animals")
	}
	if set.Allows("animals:manage", []string{"adopter"}) {
		t.Fatal("adopter must not manage animals")
	}
	if !set.AllowsAffiliated("animals:manage", []string{"shelter_admin"}) {
		t.Fatal("shelter_admin should manage affiliated animals")
	}
	if set.AllowsAffiliated("animals:browse", []string{"shelter_admin"}) {
		t.Fatal("no affiliated grant exists for animals:browse")
	}
}

func TestWildcardPermission(t *testing.T) {
	set := NewSet(Policy{Permission: "animals:*", Roles: []string{"admin"}})
	for _, perm := range []string{"animals:browse", "animals:manage"} {
		if !set.Allows(perm, []string{"admin"}) {
			t.Fatalf("admin should hold %s through animals:*", perm)
		}
	}
	if set.Allows("users:browse", []string{"admin"}) {
		t.Fatal("animals:* must not leak into users:browse")
	}
}

func TestDuplicateEntriesMerge(t *testing.T) {
	set := NewSet(
		Policy{Permission: "messages:read", Roles: []string{"adopter"}},
		Policy{Permission: "messages:read", Roles: []string{"adopter", "shelter_staff"}},
	)
	if set.Len() != 1 {
		t.Fatalf("entries = %d, want 1", set.Len())
	}
	roles := set.RolesFor("messages:read")
	if len(roles) != 2 {
		t.Fatalf("roles = %v", roles)
	}
}

func TestParseJSON(t *testing.T) {
	src := `[
		{"permission": "shelters:browse", "roles": ["admin"], "affiliatedRoles": ["shelter_staff"]},
		{"permission": "users:manage", "roles": ["admin"]}
	]`
	set, err := ParseJSON(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if !set.AllowsAffiliated("shelters:browse", []string{"shelter_staff"}) {
		t.Fatal("parsed affiliated grant missing")
	}

	if _, err := ParseJSON(strings.NewReader(`[{"roles": ["admin"]}]`)); err == nil {
		t.Fatal("expected error for empty permission")
	}
	if _, err := ParseJSON(strings.NewReader(`{not json`)); err == nil {
		t.Fatal("expected parse error")
	}
}
