// Package policy holds the declarative permission table: which roles hold a
// permission outright, and which roles hold it only toward resources they
// are affiliated with. The table is data, loaded or declared at startup,
// and consulted by the authorization engine on every check.
package policy

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Policy grants one permission to sets of roles.
type Policy struct {
	// Permission is the permission name, "resource:action" form. A
	// trailing "*" acts as a prefix wildcard ("animals:*").
	Permission string `json:"permission"`

	// Roles hold the permission unconditionally.
	Roles []string `json:"roles,omitempty"`

	// AffiliatedRoles hold the permission only toward resources they are
	// affiliated with (e.g. staff of the owning shelter).
	AffiliatedRoles []string `json:"affiliatedRoles,omitempty"`
}

// Set is an immutable collection of policies indexed for lookup.
type Set struct {
	policies []Policy
}

// NewSet builds a policy set. Duplicate permission entries merge their role
// lists.
func NewSet(policies ...Policy) *Set {
	s := &Set{}
	for _, p := range policies {
		s.add(p)
	}
	return s
}

// ParseJSON reads a policy set from a JSON array, so deployments can ship
// the permission table as configuration.
func ParseJSON(r io.Reader) (*Set, error) {
	var policies []Policy
	if err := json.NewDecoder(r).Decode(&policies); err != nil {
		return nil, fmt.Errorf("policy: parse: %w", err)
	}
	for _, p := range policies {
		if p.Permission == "" {
			return nil, fmt.Errorf("policy: entry with empty permission")
		}
	}
	return NewSet(policies...), nil
}

func (s *Set) add(p Policy) {
	for i := range s.policies {
		if s.policies[i].Permission == p.Permission {
			s.policies[i].Roles = mergeRoles(s.policies[i].Roles, p.Roles)
			s.policies[i].AffiliatedRoles = mergeRoles(s.policies[i].AffiliatedRoles, p.AffiliatedRoles)
			return
		}
	}
	s.policies = append(s.policies, Policy{
		Permission:      p.Permission,
		Roles:           mergeRoles(nil, p.Roles),
		AffiliatedRoles: mergeRoles(nil, p.AffiliatedRoles),
	})
}

// RolesFor returns every role holding a permission unconditionally.
func (s *Set) RolesFor(permission string) []string {
	var out []string
	for _, p := range s.policies {
		if matchPermission(p.Permission, permission) {
			out = mergeRoles(out, p.Roles)
		}
	}
	return out
}

// AffiliatedRolesFor returns every role holding a permission toward
// affiliated resources.
func (s *Set) AffiliatedRolesFor(permission string) []string {
	var out []string
	for _, p := range s.policies {
		if matchPermission(p.Permission, permission) {
			out = mergeRoles(out, p.AffiliatedRoles)
		}
	}
	return out
}

// Allows reports whether any of the caller's roles holds the permission
// unconditionally.
func (s *Set) Allows(permission string, roles []string) bool {
	return intersects(s.RolesFor(permission), roles)
}

// AllowsAffiliated reports whether any of the caller's roles holds the
// permission toward affiliated resources.
func (s *Set) AllowsAffiliated(permission string, roles []string) bool {
	return intersects(s.AffiliatedRolesFor(permission), roles)
}

// Len returns the number of distinct permission entries.
func (s *Set) Len() int { return len(s.policies) }

// matchPermission checks a granted permission pattern against a required
// permission. Pattern format is "resource:action"; a trailing "*" matches
// any suffix ("animals:*" matches "animals:browse").
func matchPermission(pattern, required string) bool {
	if pattern == required || pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(required, strings.TrimSuffix(pattern, "*"))
	}
	return false
}

func mergeRoles(dst, src []string) []string {
	for _, r := range src {
		found := false
		for _, have := range dst {
			if have == r {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, r)
		}
	}
	return dst
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
