// internal/app/store/events/queries.go
package eventstore

import (
	"context"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Organizer is the joined organizer identity carried on event reads.
type Organizer struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

// WithOrganizer is an event enriched with its organizer's identity.
// OrganizerDoc is nil when the organizer record no longer exists; callers
// render "Unknown" in that case.
type WithOrganizer struct {
	models.Event `bson:",inline"`
	OrganizerDoc *Organizer `bson:"organizer_doc,omitempty"`
}

// lookupOrganizer joins the organizer user document onto each event.
// preserveNullAndEmptyArrays keeps events whose organizer was deleted.
func lookupOrganizer() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "organizer",
			"foreignField": "_id",
			"as":           "organizer_doc",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$organizer_doc",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

func (s *Store) aggregate(ctx context.Context, match bson.M, sort bson.D) ([]WithOrganizer, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	pipeline = append(pipeline, lookupOrganizer()...)
	if len(sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []WithOrganizer
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID loads a single event with its organizer joined.
// Returns mongo.ErrNoDocuments if the event does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*WithOrganizer, error) {
	events, err := s.aggregate(ctx, bson.M{"_id": id}, nil)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &events[0], nil
}

// ListApproved returns approved events sorted by event date ascending, the
// order the public browse page shows them in.
func (s *Store) ListApproved(ctx context.Context) ([]WithOrganizer, error) {
	return s.aggregate(ctx,
		bson.M{"status": models.StatusApproved},
		bson.D{{Key: "date", Value: 1}})
}

// ListPending returns pending events newest-first for the admin review queue.
func (s *Store) ListPending(ctx context.Context) ([]WithOrganizer, error) {
	return s.aggregate(ctx,
		bson.M{"status": models.StatusPending},
		bson.D{{Key: "created_at", Value: -1}})
}

// ListRestricted returns restricted events newest-action-first.
func (s *Store) ListRestricted(ctx context.Context) ([]WithOrganizer, error) {
	return s.aggregate(ctx,
		bson.M{"status": models.StatusRestricted},
		bson.D{{Key: "admin_action_date", Value: -1}})
}

// ListJoined returns every event the user is attending, soonest-first.
func (s *Store) ListJoined(ctx context.Context, userID primitive.ObjectID) ([]WithOrganizer, error) {
	return s.aggregate(ctx,
		bson.M{"attendees": userID},
		bson.D{{Key: "date", Value: 1}})
}

// ListByOrganizer returns every event a user organized, newest-first,
// regardless of status. Organizers see their own pending and rejected
// events.
func (s *Store) ListByOrganizer(ctx context.Context, organizerID primitive.ObjectID) ([]WithOrganizer, error) {
	return s.aggregate(ctx,
		bson.M{"organizer": organizerID},
		bson.D{{Key: "created_at", Value: -1}})
}
