// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/system/normalize"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store owns the events collection and the bidirectional membership link
// between events.attendees and users.joined_events. All membership mutation
// goes through here so both sides stay in step.
type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("events"),
		users: db.Collection("users"),
	}
}

var (
	// ErrAlreadyJoined is returned when a user joins an event twice.
	ErrAlreadyJoined = errors.New("already joined this event")
	// ErrCapacityFull is returned when an event has reached max_volunteers.
	ErrCapacityFull = errors.New("event is at full capacity")

	errBadType = errors.New(`type must be "virtual" or "in-person"`)
)

/*─────────────────────────────────────────────────────────────────────────────*
| Lifecycle                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Create inserts a new event in pending status and records it on the
// organizer's created list. The organizer reference is immutable afterwards.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	if !models.IsValidEventType(e.Type) {
		return models.Event{}, errBadType
	}

	e.ID = primitive.NewObjectID()
	e.Title = normalize.Name(e.Title)
	e.TitleCI = text.Fold(e.Title)
	e.Tags = normalize.Tags(e.Tags)
	e.Attendees = []primitive.ObjectID{}
	e.Status = models.StatusPending
	if e.MaxVolunteers < 0 {
		e.MaxVolunteers = 0
	}

	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}

	// Organizer-side reference. $push keeps creation order.
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": e.Organizer},
		bson.M{
			"$push": bson.M{"created_events": e.ID},
			"$set":  bson.M{"updated_at": now},
		})
	if err != nil {
		// Roll the event back rather than leave it orphaned.
		_, _ = s.c.DeleteOne(ctx, bson.M{"_id": e.ID})
		return models.Event{}, err
	}
	return e, nil
}

// SetStatus overwrites the event status. Intentionally permissive: approve
// and reject are allowed from any current state, matching the admin review
// flow the SPA exposes.
func (s *Store) SetStatus(ctx context.Context, eventID primitive.ObjectID, status string) error {
	if !models.IsValidEventStatus(status) {
		return errors.New("unknown event status: " + status)
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetRestriction toggles the admin restriction. Restriction is binary:
// restricted=true stores the reason and timestamp, restricted=false returns
// the event to approved and clears both. A pending event that gets
// restricted therefore resolves to approved when unrestricted.
func (s *Store) SetRestriction(ctx context.Context, eventID primitive.ObjectID, restricted bool, reason string) error {
	now := time.Now().UTC()

	var update bson.M
	if restricted {
		update = bson.M{"$set": bson.M{
			"status":            models.StatusRestricted,
			"admin_reason":      reason,
			"admin_action_date": now,
			"updated_at":        now,
		}}
	} else {
		update = bson.M{
			"$set":   bson.M{"status": models.StatusApproved, "updated_at": now},
			"$unset": bson.M{"admin_reason": "", "admin_action_date": ""},
		}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": eventID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the event and cascades: the event id is pulled from every
// user's joined_events and created_events so no dangling references survive.
func (s *Store) Delete(ctx context.Context, eventID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": eventID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	_, err = s.users.UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"joined_events": eventID},
			bson.M{"created_events": eventID},
		}},
		bson.M{"$pull": bson.M{
			"joined_events":  eventID,
			"created_events": eventID,
		}})
	return err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Membership                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Join adds the user to the event's attendee set and the event to the user's
// joined set.
//
// The event-side write is a conditional update that matches only when the
// user is absent AND the attendee count is below max_volunteers (or max is
// 0), so concurrent joins on the last slot cannot overshoot capacity. When
// the update matches nothing, the event is re-read once to classify the
// failure: mongo.ErrNoDocuments, ErrAlreadyJoined, or ErrCapacityFull.
//
// The two writes are not transactional; if the user-side write fails the
// event-side entry is compensated with $pull before returning the error.
func (s *Store) Join(ctx context.Context, eventID, userID primitive.ObjectID) error {
	now := time.Now().UTC()

	filter := bson.M{
		"_id":       eventID,
		"attendees": bson.M{"$ne": userID},
		"$expr": bson.M{"$or": bson.A{
			bson.M{"$lte": bson.A{"$max_volunteers", 0}},
			bson.M{"$lt": bson.A{bson.M{"$size": "$attendees"}, "$max_volunteers"}},
		}},
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$addToSet": bson.M{"attendees": userID},
		"$set":      bson.M{"updated_at": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.classifyJoinFailure(ctx, eventID, userID)
	}

	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"joined_events": eventID},
			"$set":      bson.M{"updated_at": now},
		})
	if err != nil {
		// Compensating action: undo the attendee entry so the invariant holds.
		_, _ = s.c.UpdateOne(ctx,
			bson.M{"_id": eventID},
			bson.M{"$pull": bson.M{"attendees": userID}})
		return err
	}
	return nil
}

func (s *Store) classifyJoinFailure(ctx context.Context, eventID, userID primitive.ObjectID) error {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": eventID}).Decode(&e); err != nil {
		return err // includes mongo.ErrNoDocuments
	}
	for _, id := range e.Attendees {
		if id == userID {
			return ErrAlreadyJoined
		}
	}
	return ErrCapacityFull
}

// Leave removes the user from the event's attendee set and the event from
// the user's joined set. Idempotent: leaving an event never joined is a
// no-op success. Returns mongo.ErrNoDocuments only when the event itself
// does not exist.
func (s *Store) Leave(ctx context.Context, eventID, userID primitive.ObjectID) error {
	now := time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{
			"$pull": bson.M{"attendees": userID},
			"$set":  bson.M{"updated_at": now},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"joined_events": eventID},
			"$set":  bson.M{"updated_at": now},
		})
	return err
}

// Volunteer is the attendee projection exposed to organizers and admins.
// Deliberately excludes the password hash and role.
type Volunteer struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	AltID     primitive.ObjectID `bson:"-" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Volunteers returns attendee identities for an event.
// Returns mongo.ErrNoDocuments if the event does not exist.
func (s *Store) Volunteers(ctx context.Context, eventID primitive.ObjectID) ([]Volunteer, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": eventID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "attendees",
			"foreignField": "_id",
			"as":           "volunteers_data",
		}}},
		{{Key: "$project", Value: bson.M{
			"volunteers_data": bson.M{
				"_id":        1,
				"name":       1,
				"email":      1,
				"created_at": 1,
			},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Volunteers []Volunteer `bson:"volunteers_data"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	vols := rows[0].Volunteers
	for i := range vols {
		vols[i].AltID = vols[i].ID
	}
	return vols, nil
}
