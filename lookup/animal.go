package lookup

import (
	"time"

	"github.com/pawhub/leash/store"
)

// AnimalLookup filters adoptable animals.
type AnimalLookup struct {
	base Base

	IDs         []string
	ExcludedIDs []string
	ShelterIDs  []string
	Species     []string
	Statuses    []string
	BornAfter   *time.Time
	BornBefore  *time.Time
}

// NewAnimalLookup creates an empty animal lookup.
func NewAnimalLookup() *AnimalLookup { return &AnimalLookup{} }

func (l *AnimalLookup) EntityType() string { return TypeAnimal }

func (l *AnimalLookup) Base() *Base { return &l.base }

func (l *AnimalLookup) Criteria() *store.Filter {
	var parts []*store.Filter
	if len(l.IDs) > 0 {
		parts = append(parts, store.InStrings("id", l.IDs))
	}
	if len(l.ExcludedIDs) > 0 {
		parts = append(parts, store.NinStrings("id", l.ExcludedIDs))
	}
	if len(l.ShelterIDs) > 0 {
		parts = append(parts, store.InStrings("shelterId", l.ShelterIDs))
	}
	if len(l.Species) > 0 {
		parts = append(parts, store.InStrings("species", l.Species))
	}
	if len(l.Statuses) > 0 {
		parts = append(parts, store.InStrings("adoptionStatus", l.Statuses))
	}
	if l.BornAfter != nil {
		parts = append(parts, store.Gte("birthDate", *l.BornAfter))
	}
	if l.BornBefore != nil {
		parts = append(parts, store.Lte("birthDate", *l.BornBefore))
	}
	return store.And(parts...)
}

// OwnerCandidates: animals belong to shelters, not to individual users.
func (l *AnimalLookup) OwnerCandidates() []string { return nil }

func (l *AnimalLookup) Key() string {
	k := newKey(TypeAnimal)
	l.base.writeKey(k)
	k.Strs("ids", l.IDs)
	k.Strs("excludedIds", l.ExcludedIDs)
	k.Strs("shelterIds", l.ShelterIDs)
	k.Strs("species", l.Species)
	k.Strs("statuses", l.Statuses)
	k.Time("bornAfter", l.BornAfter)
	k.Time("bornBefore", l.BornBefore)
	return k.String()
}
