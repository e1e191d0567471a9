// Package access declares the per-entity visibility rules consumed by the
// censor and the builder: which permission gates reading, whether ownership
// and affiliation grants apply, which document field names the owner, and
// which fields only the owner audience may see.
package access

// Rule is one entity type's visibility configuration.
type Rule struct {
	// EntityType names the entity the rule covers.
	EntityType string

	// BrowsePermission gates read access to the entity.
	BrowsePermission string

	// AllowOwned enables the ownership fallback for the entity.
	AllowOwned bool

	// AllowAffiliated enables the affiliation fallback.
	AllowAffiliated bool

	// OwnerField is the document key holding the owning user's id.
	// Empty when the entity has no owner notion.
	OwnerField string

	// OwnerOnly lists leaf fields visible only to the owner audience:
	// the owner themselves, or a caller holding a trusted role.
	OwnerOnly []string

	// TrustedRoles see owner-only fields on every document.
	TrustedRoles []string
}

// IsOwnerOnly reports whether a field is restricted to the owner audience.
func (r *Rule) IsOwnerOnly(field string) bool {
	for _, f := range r.OwnerOnly {
		if f == field {
			return true
		}
	}
	return false
}

// Trusted reports whether any of the given roles is trusted with
// owner-only fields.
func (r *Rule) Trusted(roles []string) bool {
	for _, tr := range r.TrustedRoles {
		for _, have := range roles {
			if tr == have {
				return true
			}
		}
	}
	return false
}

// Rules maps entity types to their visibility rules.
type Rules struct {
	rules map[string]*Rule
}

// NewRules builds a rule set. Entity types without a rule are invisible to
// every caller.
func NewRules(rules ...*Rule) *Rules {
	s := &Rules{rules: make(map[string]*Rule, len(rules))}
	for _, r := range rules {
		s.rules[r.EntityType] = r
	}
	return s
}

// Register adds or replaces a rule.
func (s *Rules) Register(r *Rule) *Rules {
	s.rules[r.EntityType] = r
	return s
}

// Rule returns the rule for an entity type.
func (s *Rules) Rule(entityType string) (*Rule, bool) {
	r, ok := s.rules[entityType]
	return r, ok
}
