// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/system/normalize"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an
	// email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "user"|"organizer"|"admin"`)
)

// Create inserts a new user after normalizing & validating fields.
// The password must already be hashed by the caller.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	if u.Role == "" {
		u.Role = "user"
	}
	u.Role = normalize.Role(u.Role)

	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}

	// Membership arrays start empty, never nil, so array operators and JSON
	// both see [].
	u.JoinedEvents = []primitive.ObjectID{}
	u.CreatedEvents = []primitive.ObjectID{}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Profile is a user joined with the event documents referenced by the
// joined/created id arrays. Password never leaves this struct because the
// projection below strips it.
type Profile struct {
	models.User   `bson:",inline"`
	JoinedEvents  []models.Event `bson:"joined_events_data"`
	CreatedEvents []models.Event `bson:"created_events_data"`
}

// GetProfile loads a user with their joined and created events dereferenced.
// Returns mongo.ErrNoDocuments if the user does not exist.
func (s *Store) GetProfile(ctx context.Context, id primitive.ObjectID) (*Profile, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "events",
			"localField":   "joined_events",
			"foreignField": "_id",
			"as":           "joined_events_data",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "events",
			"localField":   "created_events",
			"foreignField": "_id",
			"as":           "created_events_data",
		}}},
		{{Key: "$project", Value: bson.M{"password": 0}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &profiles[0], nil
}

// AddCreatedEvent appends an event id to the user's created list.
// $push keeps creation order.
func (s *Store) AddCreatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"created_events": eventID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// UpsertOAuth finds a user by email or creates one with the given name and
// auth method. Used by external sign-in; such accounts carry no password hash.
func (s *Store) UpsertOAuth(ctx context.Context, name, email, authMethod string) (*models.User, error) {
	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	created, err := s.Create(ctx, models.User{
		Name:       name,
		Email:      email,
		Role:       "user",
		AuthMethod: authMethod,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Lost a race with a concurrent first sign-in; the account exists now.
			return s.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return &created, nil
}
