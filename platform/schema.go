// Package platform wires the full PawHub pipeline: entity schemas, lookup
// constructors, visibility rules, permission policies, and ownership and
// affiliation scopes, composed behind a small fetch facade.
package platform

import (
	"github.com/pawhub/leash/lookup"
	"github.com/pawhub/leash/schema"
)

// Collection names.
const (
	ColUsers         = "paw_users"
	ColShelters      = "paw_shelters"
	ColAnimals       = "paw_animals"
	ColApplications  = "paw_applications"
	ColMessages      = "paw_messages"
	ColNotifications = "paw_notifications"
)

// NewSchema declares every platform entity: leaf fields, relations, and
// free-text search fields.
func NewSchema() *schema.Registry {
	return schema.NewRegistry().
		Register(schema.NewEntity(lookup.TypeUser, ColUsers).
			Leaf("id", "email", "userName", "firstName", "lastName",
				"phoneNumber", "location", "role", "shelterId").
			Ref("shelter", lookup.TypeShelter, "shelterId").
			Searchable("userName", "firstName", "lastName")).
		Register(schema.NewEntity(lookup.TypeShelter, ColShelters).
			Leaf("id", "shelterName", "description", "address", "city",
				"email", "phoneNumber").
			RefList("animals", lookup.TypeAnimal, "shelterId").
			Searchable("shelterName", "city")).
		Register(schema.NewEntity(lookup.TypeAnimal, ColAnimals).
			Leaf("id", "name", "species", "breed", "sex", "birthDate",
				"description", "adoptionStatus", "shelterId").
			Ref("shelter", lookup.TypeShelter, "shelterId").
			Searchable("name", "species", "breed")).
		Register(schema.NewEntity(lookup.TypeApplication, ColApplications).
			Leaf("id", "status", "submittedAt", "answers",
				"userId", "animalId", "shelterId").
			Ref("user", lookup.TypeUser, "userId").
			Ref("animal", lookup.TypeAnimal, "animalId").
			Ref("shelter", lookup.TypeShelter, "shelterId")).
		Register(schema.NewEntity(lookup.TypeMessage, ColMessages).
			Leaf("id", "subject", "body", "sentAt", "readAt",
				"senderId", "recipientId", "applicationId").
			Ref("sender", lookup.TypeUser, "senderId").
			Ref("recipient", lookup.TypeUser, "recipientId").
			Ref("application", lookup.TypeApplication, "applicationId")).
		Register(schema.NewEntity(lookup.TypeNotification, ColNotifications).
			Leaf("id", "kind", "body", "createdAt", "deliveredAt",
				"userId", "messageId").
			Ref("user", lookup.TypeUser, "userId").
			Ref("message", lookup.TypeMessage, "messageId"))
}
