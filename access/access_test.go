package access

import "testing"

func TestRuleOwnerOnly(t *testing.T) {
	r := &Rule{
		EntityType: "user",
		OwnerOnly:  []string{"email", "phoneNumber"},
	}
	if !r.IsOwnerOnly("email") {
		t.Fatal("email should be owner-only")
	}
	if r.IsOwnerOnly("userName") {
		t.Fatal("userName should not be owner-only")
	}
}

func TestRuleTrusted(t *testing.T) {
	r := &Rule{EntityType: "user", TrustedRoles: []string{"admin"}}
	if !r.Trusted([]string{"adopter", "admin"}) {
		t.Fatal("admin should be trusted")
	}
	if r.Trusted([]string{"adopter"}) {
		t.Fatal("adopter should not be trusted")
	}
	if r.Trusted(nil) {
		t.Fatal("no roles should not be trusted")
	}
}

func TestRulesLookupAndReplace(t *testing.T) {
	s := NewRules(&Rule{EntityType: "animal", BrowsePermission: "animals:browse"})

	r, ok := s.Rule("animal")
	if !ok || r.BrowsePermission != "animals:browse" {
		t.Fatalf("rule = %+v ok = %v", r, ok)
	}
	if _, ok := s.Rule("ghost"); ok {
		t.Fatal("unknown entity should have no rule")
	}

	s.Register(&Rule{EntityType: "animal", BrowsePermission: "animals:manage"})
	r, _ = s.Rule("animal")
	if r.BrowsePermission != "animals:manage" {
		t.Fatalf("replace failed: %+v", r)
	}
}
