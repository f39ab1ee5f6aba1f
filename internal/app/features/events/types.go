// internal/app/features/events/types.go
package events

import (
	"fmt"
	"strings"
	"time"

	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventView is the JSON shape the SPA consumes. The id/_id duplication and
// camelCase field names are load-bearing: the frontend was built against the
// original API and reads both.
type EventView struct {
	ID            primitive.ObjectID   `json:"id"`
	LegacyID      primitive.ObjectID   `json:"_id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Date          time.Time            `json:"date"`
	Type          string               `json:"type"`
	Location      string               `json:"location"`
	Tags          []string             `json:"tags"`
	ImageURL      string               `json:"imageUrl"`
	Attendees     []primitive.ObjectID `json:"attendees"`
	Organizer     primitive.ObjectID   `json:"organizer"`
	OrganizerName string               `json:"organizerName"`
	Status        string               `json:"status"`
	WhatToBring   string               `json:"whatToBring"`
	MaxVolunteers int                  `json:"maxVolunteers"`

	// Derived, never stored.
	VolunteerCount int `json:"volunteerCount"`

	AdminReason     string     `json:"adminReason"`
	AdminActionDate *time.Time `json:"adminActionDate"`
}

// placeholderImage generates a fallback image URL keyed by the event title,
// matching what the SPA rendered before an image was uploaded.
func placeholderImage(title string) string {
	return fmt.Sprintf("https://placehold.co/400x200/a0eec0/1f4d1f?text=%s",
		strings.ReplaceAll(title, " ", "+"))
}

// viewOf shapes a joined event for the wire.
func viewOf(e *eventstore.WithOrganizer) EventView {
	organizerName := "Unknown"
	if e.OrganizerDoc != nil {
		organizerName = e.OrganizerDoc.Name
	}

	imageURL := e.ImageURL
	if imageURL == "" {
		imageURL = placeholderImage(e.Title)
	}

	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	attendees := e.Attendees
	if attendees == nil {
		attendees = []primitive.ObjectID{}
	}

	return EventView{
		ID:              e.Event.ID,
		LegacyID:        e.Event.ID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.Date,
		Type:            e.Type,
		Location:        e.Location,
		Tags:            tags,
		ImageURL:        imageURL,
		Attendees:       attendees,
		Organizer:       e.Organizer,
		OrganizerName:   organizerName,
		Status:          e.Status,
		WhatToBring:     e.WhatToBring,
		MaxVolunteers:   e.MaxVolunteers,
		VolunteerCount:  len(attendees),
		AdminReason:     e.AdminReason,
		AdminActionDate: e.AdminActionDate,
	}
}

// viewsOf shapes a list, never returning a nil slice.
func viewsOf(events []eventstore.WithOrganizer) []EventView {
	out := make([]EventView, 0, len(events))
	for i := range events {
		out = append(out, viewOf(&events[i]))
	}
	return out
}
