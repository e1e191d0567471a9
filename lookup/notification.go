package lookup

import "github.com/pawhub/leash/store"

// NotificationLookup filters per-user notifications.
type NotificationLookup struct {
	base Base

	IDs             []string
	UserIDs         []string
	Kinds           []string
	UndeliveredOnly bool
}

// NewNotificationLookup creates an empty notification lookup.
func NewNotificationLookup() *NotificationLookup { return &NotificationLookup{} }

func (l *NotificationLookup) EntityType() string { return TypeNotification }

func (l *NotificationLookup) Base() *Base { return &l.base }

func (l *NotificationLookup) Criteria() *store.Filter {
	var parts []*store.Filter
	if len(l.IDs) > 0 {
		parts = append(parts, store.InStrings("id", l.IDs))
	}
	if len(l.UserIDs) > 0 {
		parts = append(parts, store.InStrings("userId", l.UserIDs))
	}
	if len(l.Kinds) > 0 {
		parts = append(parts, store.InStrings("kind", l.Kinds))
	}
	if l.UndeliveredOnly {
		parts = append(parts, store.Eq("deliveredAt", nil))
	}
	return store.And(parts...)
}

// OwnerCandidates returns the recipient ids the lookup is pinned to.
func (l *NotificationLookup) OwnerCandidates() []string { return l.UserIDs }

func (l *NotificationLookup) Key() string {
	k := newKey(TypeNotification)
	l.base.writeKey(k)
	k.Strs("ids", l.IDs)
	k.Strs("userIds", l.UserIDs)
	k.Strs("kinds", l.Kinds)
	k.Bool("undeliveredOnly", l.UndeliveredOnly)
	return k.String()
}
