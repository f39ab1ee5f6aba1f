// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name, email, and role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Name:          name,
		NameCI:        text.Fold(name),
		Email:         email,
		Password:      "$2a$12$fixture-hash-not-a-real-credential",
		Role:          role,
		JoinedEvents:  []primitive.ObjectID{},
		CreatedEvents: []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAdmin creates a test user with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, "admin")
}

// CreateEvent creates a test event owned by the given organizer. Status
// defaults to approved so the event is visible to join/leave tests; pass a
// different status for lifecycle tests.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, organizer primitive.ObjectID, status string, maxVolunteers int) models.Event {
	f.t.Helper()

	if status == "" {
		status = models.StatusApproved
	}
	now := time.Now().UTC()
	e := models.Event{
		ID:            primitive.NewObjectID(),
		Title:         title,
		TitleCI:       text.Fold(title),
		Description:   "fixture event",
		Date:          now.Add(72 * time.Hour),
		Type:          models.TypeVirtual,
		Tags:          []string{},
		Organizer:     organizer,
		Attendees:     []primitive.ObjectID{},
		MaxVolunteers: maxVolunteers,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}

	if _, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": organizer},
		bson.M{"$push": bson.M{"created_events": e.ID}}); err != nil {
		f.t.Fatalf("failed to link event to organizer: %v", err)
	}
	return e
}
