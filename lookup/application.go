package lookup

import (
	"time"

	"github.com/pawhub/leash/store"
)

// ApplicationLookup filters adoption applications.
type ApplicationLookup struct {
	base Base

	IDs             []string
	ExcludedIDs     []string
	UserIDs         []string
	AnimalIDs       []string
	ShelterIDs      []string
	Statuses        []string
	SubmittedAfter  *time.Time
	SubmittedBefore *time.Time
}

// NewApplicationLookup creates an empty application lookup.
func NewApplicationLookup() *ApplicationLookup { return &ApplicationLookup{} }

func (l *ApplicationLookup) EntityType() string { return TypeApplication }

func (l *ApplicationLookup) Base() *Base { return &l.base }

func (l *ApplicationLookup) Criteria() *store.Filter {
	var parts []*store.Filter
	if len(l.IDs) > 0 {
		parts = append(parts, store.InStrings("id", l.IDs))
	}
	if len(l.ExcludedIDs) > 0 {
		parts = append(parts, store.NinStrings("id", l.ExcludedIDs))
	}
	if len(l.UserIDs) > 0 {
		parts = append(parts, store.InStrings("userId", l.UserIDs))
	}
	if len(l.AnimalIDs) > 0 {
		parts = append(parts, store.InStrings("animalId", l.AnimalIDs))
	}
	if len(l.ShelterIDs) > 0 {
		parts = append(parts, store.InStrings("shelterId", l.ShelterIDs))
	}
	if len(l.Statuses) > 0 {
		parts = append(parts, store.InStrings("status", l.Statuses))
	}
	if l.SubmittedAfter != nil {
		parts = append(parts, store.Gte("submittedAt", *l.SubmittedAfter))
	}
	if l.SubmittedBefore != nil {
		parts = append(parts, store.Lte("submittedAt", *l.SubmittedBefore))
	}
	return store.And(parts...)
}

// OwnerCandidates returns the applicant ids the lookup is pinned to.
func (l *ApplicationLookup) OwnerCandidates() []string { return l.UserIDs }

func (l *ApplicationLookup) Key() string {
	k := newKey(TypeApplication)
	l.base.writeKey(k)
	k.Strs("ids", l.IDs)
	k.Strs("excludedIds", l.ExcludedIDs)
	k.Strs("userIds", l.UserIDs)
	k.Strs("animalIds", l.AnimalIDs)
	k.Strs("shelterIds", l.ShelterIDs)
	k.Strs("statuses", l.Statuses)
	k.Time("submittedAfter", l.SubmittedAfter)
	k.Time("submittedBefore", l.SubmittedBefore)
	return k.String()
}
