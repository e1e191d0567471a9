package lookup

import "github.com/pawhub/leash/store"

// MessageLookup filters conversation messages exchanged over an application.
type MessageLookup struct {
	base Base

	IDs            []string
	SenderIDs      []string
	RecipientIDs   []string
	ApplicationIDs []string
	UnreadOnly     bool
}

// NewMessageLookup creates an empty message lookup.
func NewMessageLookup() *MessageLookup { return &MessageLookup{} }

func (l *MessageLookup) EntityType() string { return TypeMessage }

func (l *MessageLookup) Base() *Base { return &l.base }

func (l *MessageLookup) Criteria() *store.Filter {
	var parts []*store.Filter
	if len(l.IDs) > 0 {
		parts = append(parts, store.InStrings("id", l.IDs))
	}
	if len(l.SenderIDs) > 0 {
		parts = append(parts, store.InStrings("senderId", l.SenderIDs))
	}
	if len(l.RecipientIDs) > 0 {
		parts = append(parts, store.InStrings("recipientId", l.RecipientIDs))
	}
	if len(l.ApplicationIDs) > 0 {
		parts = append(parts, store.InStrings("applicationId", l.ApplicationIDs))
	}
	if l.UnreadOnly {
		parts = append(parts, store.Eq("readAt", nil))
	}
	return store.And(parts...)
}

// OwnerCandidates returns both sides of the conversation the lookup is
// pinned to. A message is owned by its sender and its recipient alike.
func (l *MessageLookup) OwnerCandidates() []string {
	out := make([]string, 0, len(l.SenderIDs)+len(l.RecipientIDs))
	out = append(out, l.SenderIDs...)
	out = append(out, l.RecipientIDs...)
	return out
}

func (l *MessageLookup) Key() string {
	k := newKey(TypeMessage)
	l.base.writeKey(k)
	k.Strs("ids", l.IDs)
	k.Strs("senderIds", l.SenderIDs)
	k.Strs("recipientIds", l.RecipientIDs)
	k.Strs("applicationIds", l.ApplicationIDs)
	k.Bool("unreadOnly", l.UnreadOnly)
	return k.String()
}
