package lookup

import "github.com/pawhub/leash/store"

// ShelterLookup filters shelters.
type ShelterLookup struct {
	base Base

	IDs         []string
	ExcludedIDs []string
	Cities      []string
}

// NewShelterLookup creates an empty shelter lookup.
func NewShelterLookup() *ShelterLookup { return &ShelterLookup{} }

func (l *ShelterLookup) EntityType() string { return TypeShelter }

func (l *ShelterLookup) Base() *Base { return &l.base }

func (l *ShelterLookup) Criteria() *store.Filter {
	var parts []*store.Filter
	if len(l.IDs) > 0 {
		parts = append(parts, store.InStrings("id", l.IDs))
	}
	if len(l.ExcludedIDs) > 0 {
		parts = append(parts, store.NinStrings("id", l.ExcludedIDs))
	}
	if len(l.Cities) > 0 {
		parts = append(parts, store.InStrings("city", l.Cities))
	}
	return store.And(parts...)
}

// OwnerCandidates: shelters have no individual owner; access is affiliation
// based.
func (l *ShelterLookup) OwnerCandidates() []string { return nil }

func (l *ShelterLookup) Key() string {
	k := newKey(TypeShelter)
	l.base.writeKey(k)
	k.Strs("ids", l.IDs)
	k.Strs("excludedIds", l.ExcludedIDs)
	k.Strs("cities", l.Cities)
	return k.String()
}
