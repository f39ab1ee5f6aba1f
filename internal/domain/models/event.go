// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses. Pending is the initial state; approve/reject overwrite the
// status from any state, and restrict toggles between approved and restricted.
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusRestricted = "restricted"
)

// Event types.
const (
	TypeVirtual  = "virtual"
	TypeInPerson = "in-person"
)

// IsValidEventStatus checks if a value is a known event status.
func IsValidEventStatus(value string) bool {
	switch value {
	case StatusPending, StatusApproved, StatusRejected, StatusRestricted:
		return true
	}
	return false
}

// IsValidEventType checks if a value is a known event type.
func IsValidEventType(value string) bool {
	return value == TypeVirtual || value == TypeInPerson
}

// Event represents a volunteer event document.
//
// NOTE:
//   - Attendees is the authoritative attendee set; len(Attendees) must never
//     exceed MaxVolunteers when MaxVolunteers > 0. The store enforces this
//     with a conditional update at join time.
//   - Organizer is immutable after creation.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped
	Description string             `bson:"description" json:"description"`
	Date        time.Time          `bson:"date" json:"date"`
	Type        string             `bson:"type" json:"type"` // virtual | in-person
	Location    string             `bson:"location" json:"location"`
	Tags        []string           `bson:"tags" json:"tags"`
	ImageURL    string             `bson:"image_url" json:"imageUrl"`
	WhatToBring string             `bson:"what_to_bring" json:"whatToBring"`

	Organizer     primitive.ObjectID   `bson:"organizer" json:"organizer"`
	Attendees     []primitive.ObjectID `bson:"attendees" json:"attendees"`
	MaxVolunteers int                  `bson:"max_volunteers" json:"maxVolunteers"` // 0 = unlimited

	Status string `bson:"status" json:"status"`

	// Set when an admin restricts the event; cleared on unrestrict.
	AdminReason     string     `bson:"admin_reason,omitempty" json:"adminReason,omitempty"`
	AdminActionDate *time.Time `bson:"admin_action_date,omitempty" json:"adminActionDate,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
