package platform

import (
	"github.com/pawhub/leash"
	"github.com/pawhub/leash/policy"
)

// DefaultPolicies is the platform permission table. Outright grants go to
// roles; affiliated grants apply only toward the caller's own shelter.
func DefaultPolicies() *policy.Set {
	return policy.NewSet(
		policy.Policy{
			Permission:      leash.PermBrowseUsers,
			Roles:           []string{leash.RoleAdmin},
			AffiliatedRoles: []string{leash.RoleShelterStaff, leash.RoleShelterAdmin},
		},
		policy.Policy{
			Permission: leash.PermManageUsers,
			Roles:      []string{leash.RoleAdmin},
		},
		policy.Policy{
			Permission: leash.PermBrowseShelters,
			Roles: []string{leash.RoleAdmin, leash.RoleAdopter,
				leash.RoleShelterStaff, leash.RoleShelterAdmin},
		},
		policy.Policy{
			Permission:      leash.PermManageShelters,
			Roles:           []string{leash.RoleAdmin},
			AffiliatedRoles: []string{leash.RoleShelterAdmin},
		},
		policy.Policy{
			Permission: leash.PermBrowseAnimals,
			Roles: []string{leash.RoleAdmin, leash.RoleAdopter,
				leash.RoleShelterStaff, leash.RoleShelterAdmin},
		},
		policy.Policy{
			Permission:      leash.PermManageAnimals,
			Roles:           []string{leash.RoleAdmin},
			AffiliatedRoles: []string{leash.RoleShelterStaff, leash.RoleShelterAdmin},
		},
		policy.Policy{
			Permission:      leash.PermBrowseApplications,
			Roles:           []string{leash.RoleAdmin},
			AffiliatedRoles: []string{leash.RoleShelterStaff, leash.RoleShelterAdmin},
		},
		policy.Policy{
			Permission:      leash.PermManageApplications,
			Roles:           []string{leash.RoleAdmin},
			AffiliatedRoles: []string{leash.RoleShelterAdmin},
		},
		policy.Policy{
			Permission: leash.PermBrowseMessages,
			Roles:      []string{leash.RoleAdmin},
		},
		policy.Policy{
			Permission: leash.PermBrowseNotifications,
			Roles:      []string{leash.RoleAdmin},
		},
	)
}
