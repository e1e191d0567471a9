package lookup

import "github.com/pawhub/leash/store"

// UserLookup filters platform users.
type UserLookup struct {
	base Base

	IDs         []string
	ExcludedIDs []string
	Roles       []string
	ShelterIDs  []string
}

// NewUserLookup creates an empty user lookup.
func NewUserLookup() *UserLookup { return &UserLookup{} }

func (l *UserLookup) EntityType() string { return TypeUser }

func (l *UserLookup) Base() *Base { return &l.base }

func (l *UserLookup) Criteria() *store.Filter {
	var parts []*store.Filter
	if len(l.IDs) > 0 {
		parts = append(parts, store.InStrings("id", l.IDs))
	}
	if len(l.ExcludedIDs) > 0 {
		parts = append(parts, store.NinStrings("id", l.ExcludedIDs))
	}
	if len(l.Roles) > 0 {
		parts = append(parts, store.InStrings("role", l.Roles))
	}
	if len(l.ShelterIDs) > 0 {
		parts = append(parts, store.InStrings("shelterId", l.ShelterIDs))
	}
	return store.And(parts...)
}

// OwnerCandidates: a user record is owned by the user it describes.
func (l *UserLookup) OwnerCandidates() []string { return l.IDs }

func (l *UserLookup) Key() string {
	k := newKey(TypeUser)
	l.base.writeKey(k)
	k.Strs("ids", l.IDs)
	k.Strs("excludedIds", l.ExcludedIDs)
	k.Strs("roles", l.Roles)
	k.Strs("shelterIds", l.ShelterIDs)
	return k.String()
}
