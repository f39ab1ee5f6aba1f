// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account: regular users, organizers, and admins.
//
// NOTE:
//   - JoinedEvents mirrors the attendee arrays on events. Every event id in
//     JoinedEvents must have this user's id in its attendees array and
//     vice versa. The event store maintains both sides.
//   - Role "organizer" is informational; authorization only distinguishes
//     admins and per-event ownership.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password,omitempty" json:"-"` // bcrypt hash, never serialized
	Role       string             `bson:"role" json:"role"`            // user | organizer | admin
	AuthMethod string             `bson:"auth_method,omitempty" json:"-"`

	JoinedEvents  []primitive.ObjectID `bson:"joined_events" json:"joinedEvents"`
	CreatedEvents []primitive.ObjectID `bson:"created_events" json:"createdEvents"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidRole checks if a value is a known account role.
func IsValidRole(value string) bool {
	switch value {
	case "user", "organizer", "admin":
		return true
	}
	return false
}
