package platform

import (
	"github.com/pawhub/leash"
	"github.com/pawhub/leash/access"
	"github.com/pawhub/leash/lookup"
)

// DefaultRules is the platform visibility configuration: which grant
// combination opens each entity type and which fields stay owner-only.
func DefaultRules() *access.Rules {
	return access.NewRules(
		&access.Rule{
			EntityType:       lookup.TypeUser,
			BrowsePermission: leash.PermBrowseUsers,
			AllowOwned:       true,
			AllowAffiliated:  true,
			OwnerField:       "id",
			OwnerOnly:        []string{"email", "phoneNumber", "location"},
			TrustedRoles:     []string{leash.RoleAdmin},
		},
		&access.Rule{
			EntityType:       lookup.TypeShelter,
			BrowsePermission: leash.PermBrowseShelters,
			AllowAffiliated:  true,
		},
		&access.Rule{
			EntityType:       lookup.TypeAnimal,
			BrowsePermission: leash.PermBrowseAnimals,
			AllowAffiliated:  true,
		},
		&access.Rule{
			EntityType:       lookup.TypeApplication,
			BrowsePermission: leash.PermBrowseApplications,
			AllowOwned:       true,
			AllowAffiliated:  true,
			OwnerField:       "userId",
			OwnerOnly:        []string{"answers"},
			TrustedRoles:     []string{leash.RoleAdmin},
		},
		&access.Rule{
			EntityType:       lookup.TypeMessage,
			BrowsePermission: leash.PermBrowseMessages,
			AllowOwned:       true,
			OwnerField:       "senderId",
		},
		&access.Rule{
			EntityType:       lookup.TypeNotification,
			BrowsePermission: leash.PermBrowseNotifications,
			AllowOwned:       true,
			OwnerField:       "userId",
		},
	)
}
