package eventpolicy

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanManage(t *testing.T) {
	organizerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	event := &models.Event{ID: primitive.NewObjectID(), Organizer: organizerID}

	tests := []struct {
		name string
		user *auth.SessionUser
		want bool
	}{
		{"no session", nil, false},
		{"admin", &auth.SessionUser{ID: otherID.Hex(), Role: "admin"}, true},
		{"organizer of this event", &auth.SessionUser{ID: organizerID.Hex(), Role: "user"}, true},
		{"unrelated user", &auth.SessionUser{ID: otherID.Hex(), Role: "user"}, false},
		// The organizer *role* alone grants nothing; only ownership does.
		{"organizer role, not owner", &auth.SessionUser{ID: otherID.Hex(), Role: "organizer"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			if got := CanManage(req, event); got != tt.want {
				t.Errorf("CanManage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOrganizer(t *testing.T) {
	organizerID := primitive.NewObjectID()
	event := &models.Event{Organizer: organizerID}

	if !IsOrganizer(event, organizerID) {
		t.Error("expected true for the organizer")
	}
	if IsOrganizer(event, primitive.NewObjectID()) {
		t.Error("expected false for another user")
	}
}
