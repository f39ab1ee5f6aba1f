package eventstore_test

import (
	"errors"
	"testing"
	"time"

	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) (*eventstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return eventstore.New(db), testutil.NewFixtures(t, db)
}

func TestCreate_StartsPendingAndLinksOrganizer(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")

	event, err := store.Create(ctx, models.Event{
		Title:       "  Coat Drive  ",
		Description: "Winter coats for shelters",
		Date:        time.Now().Add(48 * time.Hour),
		Type:        models.TypeVirtual,
		Organizer:   organizer.ID,
		Status:      models.StatusApproved, // callers cannot pick a status
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if event.Status != models.StatusPending {
		t.Errorf("new events must start pending, got %q", event.Status)
	}
	if event.Title != "Coat Drive" {
		t.Errorf("title not trimmed: %q", event.Title)
	}
	if event.Attendees == nil || len(event.Attendees) != 0 {
		t.Errorf("attendees must start as an empty array, got %v", event.Attendees)
	}

	var organizerDoc models.User
	if err := fixtures.DB().Collection("users").
		FindOne(ctx, bson.M{"_id": organizer.ID}).Decode(&organizerDoc); err != nil {
		t.Fatalf("reload organizer: %v", err)
	}
	if len(organizerDoc.CreatedEvents) != 1 || organizerDoc.CreatedEvents[0] != event.ID {
		t.Errorf("expected created_events to contain %s, got %v", event.ID.Hex(), organizerDoc.CreatedEvents)
	}
}

func TestCreate_RejectsBadType(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")

	_, err := store.Create(ctx, models.Event{
		Title:     "Mystery Meetup",
		Type:      "hybrid",
		Organizer: organizer.ID,
	})
	if err == nil {
		t.Fatal("expected an error for unknown event type")
	}
}

func TestJoin_BidirectionalAndDuplicate(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")
	alice := fixtures.CreateUser(ctx, "Alice", "alice@test.com", "user")
	event := fixtures.CreateEvent(ctx, "Food Bank Shift", organizer.ID, models.StatusApproved, 0)

	if err := store.Join(ctx, event.ID, alice.ID); err != nil {
		t.Fatalf("Join: %v", err)
	}

	var eventDoc models.Event
	if err := fixtures.DB().Collection("events").
		FindOne(ctx, bson.M{"_id": event.ID}).Decode(&eventDoc); err != nil {
		t.Fatalf("reload event: %v", err)
	}
	var aliceDoc models.User
	if err := fixtures.DB().Collection("users").
		FindOne(ctx, bson.M{"_id": alice.ID}).Decode(&aliceDoc); err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if len(eventDoc.Attendees) != 1 || eventDoc.Attendees[0] != alice.ID {
		t.Errorf("attendees: got %v", eventDoc.Attendees)
	}
	if len(aliceDoc.JoinedEvents) != 1 || aliceDoc.JoinedEvents[0] != event.ID {
		t.Errorf("joined_events: got %v", aliceDoc.JoinedEvents)
	}

	if err := store.Join(ctx, event.ID, alice.ID); !errors.Is(err, eventstore.ErrAlreadyJoined) {
		t.Errorf("expected ErrAlreadyJoined, got %v", err)
	}
}

func TestJoin_CapacityEnforced(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")
	event := fixtures.CreateEvent(ctx, "Small Workshop", organizer.ID, models.StatusApproved, 2)

	users := []models.User{
		fixtures.CreateUser(ctx, "Alice", "alice@test.com", "user"),
		fixtures.CreateUser(ctx, "Bob", "bob@test.com", "user"),
		fixtures.CreateUser(ctx, "Carol", "carol@test.com", "user"),
	}

	if err := store.Join(ctx, event.ID, users[0].ID); err != nil {
		t.Fatalf("join 1: %v", err)
	}
	if err := store.Join(ctx, event.ID, users[1].ID); err != nil {
		t.Fatalf("join 2: %v", err)
	}
	if err := store.Join(ctx, event.ID, users[2].ID); !errors.Is(err, eventstore.ErrCapacityFull) {
		t.Fatalf("expected ErrCapacityFull, got %v", err)
	}

	// max_volunteers == 0 means unlimited.
	open := fixtures.CreateEvent(ctx, "Open Rally", organizer.ID, models.StatusApproved, 0)
	for _, u := range users {
		if err := store.Join(ctx, open.ID, u.ID); err != nil {
			t.Fatalf("join open event: %v", err)
		}
	}
}

func TestJoin_MissingEvent(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "Alice", "alice@test.com", "user")

	err := store.Join(ctx, primitive.NewObjectID(), alice.ID)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestLeave_IdempotentBothSides(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")
	alice := fixtures.CreateUser(ctx, "Alice", "alice@test.com", "user")
	event := fixtures.CreateEvent(ctx, "Cleanup", organizer.ID, models.StatusApproved, 0)

	if err := store.Join(ctx, event.ID, alice.ID); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := store.Leave(ctx, event.ID, alice.ID); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	// Leaving again is a no-op success.
	if err := store.Leave(ctx, event.ID, alice.ID); err != nil {
		t.Fatalf("repeat Leave: %v", err)
	}

	var eventDoc models.Event
	if err := fixtures.DB().Collection("events").
		FindOne(ctx, bson.M{"_id": event.ID}).Decode(&eventDoc); err != nil {
		t.Fatalf("reload event: %v", err)
	}
	var aliceDoc models.User
	if err := fixtures.DB().Collection("users").
		FindOne(ctx, bson.M{"_id": alice.ID}).Decode(&aliceDoc); err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if len(eventDoc.Attendees) != 0 || len(aliceDoc.JoinedEvents) != 0 {
		t.Errorf("membership not cleared: attendees=%v joined=%v", eventDoc.Attendees, aliceDoc.JoinedEvents)
	}

	if err := store.Leave(ctx, primitive.NewObjectID(), alice.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("leaving a missing event: expected ErrNoDocuments, got %v", err)
	}
}

func TestSetRestriction_RoundTrip(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")
	event := fixtures.CreateEvent(ctx, "Fundraiser", organizer.ID, models.StatusPending, 0)

	if err := store.SetRestriction(ctx, event.ID, true, "Needs review"); err != nil {
		t.Fatalf("restrict: %v", err)
	}

	var doc models.Event
	if err := fixtures.DB().Collection("events").
		FindOne(ctx, bson.M{"_id": event.ID}).Decode(&doc); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if doc.Status != models.StatusRestricted || doc.AdminReason != "Needs review" || doc.AdminActionDate == nil {
		t.Fatalf("restriction not recorded: %+v", doc)
	}

	// Unrestricting resolves to approved even though the event was pending.
	if err := store.SetRestriction(ctx, event.ID, false, ""); err != nil {
		t.Fatalf("unrestrict: %v", err)
	}
	if err := fixtures.DB().Collection("events").
		FindOne(ctx, bson.M{"_id": event.ID}).Decode(&doc); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if doc.Status != models.StatusApproved || doc.AdminReason != "" || doc.AdminActionDate != nil {
		t.Errorf("restriction not cleared: %+v", doc)
	}
}

func TestDelete_CascadesMembership(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")
	alice := fixtures.CreateUser(ctx, "Alice", "alice@test.com", "user")
	event := fixtures.CreateEvent(ctx, "Gala", organizer.ID, models.StatusApproved, 0)
	keep := fixtures.CreateEvent(ctx, "Keeper", organizer.ID, models.StatusApproved, 0)

	if err := store.Join(ctx, event.ID, alice.ID); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := store.Join(ctx, keep.ID, alice.ID); err != nil {
		t.Fatalf("Join keeper: %v", err)
	}

	if err := store.Delete(ctx, event.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var aliceDoc models.User
	if err := fixtures.DB().Collection("users").
		FindOne(ctx, bson.M{"_id": alice.ID}).Decode(&aliceDoc); err != nil {
		t.Fatalf("reload alice: %v", err)
	}
	if len(aliceDoc.JoinedEvents) != 1 || aliceDoc.JoinedEvents[0] != keep.ID {
		t.Errorf("expected only the surviving event in joined_events, got %v", aliceDoc.JoinedEvents)
	}

	var organizerDoc models.User
	if err := fixtures.DB().Collection("users").
		FindOne(ctx, bson.M{"_id": organizer.ID}).Decode(&organizerDoc); err != nil {
		t.Fatalf("reload organizer: %v", err)
	}
	for _, id := range organizerDoc.CreatedEvents {
		if id == event.ID {
			t.Error("deleted event still referenced in created_events")
		}
	}

	if err := store.Delete(ctx, event.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("double delete: expected ErrNoDocuments, got %v", err)
	}
}

func TestLists_StatusAndOrder(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")
	fixtures.CreateEvent(ctx, "Approved One", organizer.ID, models.StatusApproved, 0)
	fixtures.CreateEvent(ctx, "Pending One", organizer.ID, models.StatusPending, 0)
	fixtures.CreateEvent(ctx, "Rejected One", organizer.ID, models.StatusRejected, 0)

	approved, err := store.ListApproved(ctx)
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(approved) != 1 || approved[0].Title != "Approved One" {
		t.Errorf("ListApproved: got %+v", approved)
	}
	if approved[0].OrganizerDoc == nil || approved[0].OrganizerDoc.Name != "Olive" {
		t.Errorf("expected organizer joined, got %+v", approved[0].OrganizerDoc)
	}

	pending, err := store.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 || pending[0].Title != "Pending One" {
		t.Errorf("ListPending: got %+v", pending)
	}

	mine, err := store.ListByOrganizer(ctx, organizer.ID)
	if err != nil {
		t.Fatalf("ListByOrganizer: %v", err)
	}
	if len(mine) != 3 {
		t.Errorf("ListByOrganizer: expected all statuses, got %d", len(mine))
	}
}

func TestGetByID_OrphanedOrganizer(t *testing.T) {
	store, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")
	event := fixtures.CreateEvent(ctx, "Orphan Event", organizer.ID, models.StatusApproved, 0)

	if _, err := fixtures.DB().Collection("users").
		DeleteOne(ctx, bson.M{"_id": organizer.ID}); err != nil {
		t.Fatalf("delete organizer: %v", err)
	}

	got, err := store.GetByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OrganizerDoc != nil {
		t.Errorf("expected nil organizer doc for orphaned event, got %+v", got.OrganizerDoc)
	}
}
