package users_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/features/users"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*users.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := users.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestServeProfile_DereferencesEvents(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "Olive", "olive@test.com", "organizer")
	alice := fixtures.CreateUser(ctx, "Alice", "alice@test.com", "user")
	event := fixtures.CreateEvent(ctx, "Park Cleanup", organizer.ID, models.StatusApproved, 0)

	// Link Alice to the event on both sides, as a join would.
	if _, err := fixtures.DB().Collection("events").UpdateOne(ctx,
		bson.M{"_id": event.ID},
		bson.M{"$addToSet": bson.M{"attendees": alice.ID}}); err != nil {
		t.Fatalf("link attendee: %v", err)
	}
	if _, err := fixtures.DB().Collection("users").UpdateOne(ctx,
		bson.M{"_id": alice.ID},
		bson.M{"$addToSet": bson.M{"joined_events": event.ID}}); err != nil {
		t.Fatalf("link joined event: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/users/"+alice.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", alice.ID.Hex())
	rec := httptest.NewRecorder()
	handler.ServeProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("profile must not expose password hashes: %s", rec.Body.String())
	}

	var resp struct {
		Name         string `json:"name"`
		JoinedEvents []struct {
			Title string `json:"title"`
		} `json:"joinedEvents"`
		CreatedEvents []struct {
			Title string `json:"title"`
		} `json:"createdEvents"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Name != "Alice" {
		t.Errorf("unexpected name %q", resp.Name)
	}
	if len(resp.JoinedEvents) != 1 || resp.JoinedEvents[0].Title != "Park Cleanup" {
		t.Errorf("expected joined event dereferenced, got %+v", resp.JoinedEvents)
	}
	if resp.CreatedEvents == nil {
		t.Error("createdEvents should be an empty array, not null")
	}
}

func TestServeProfile_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	for _, id := range []string{"507f1f77bcf86cd799439099", "not-a-hex-id"} {
		req := httptest.NewRequest("GET", "/api/users/"+id, nil)
		req = testutil.WithChiURLParam(req, "id", id)
		rec := httptest.NewRecorder()
		handler.ServeProfile(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("id %q: expected status %d, got %d", id, http.StatusNotFound, rec.Code)
		}
	}
}
