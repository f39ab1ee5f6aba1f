package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	role, name, userID, ok := UserCtx(req)
	if ok {
		t.Fatal("expected ok=false for request without a user")
	}
	if role != "visitor" || name != "" || userID != primitive.NilObjectID {
		t.Errorf("unexpected zero values: role=%q name=%q id=%v", role, name, userID)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-an-objectid", Role: "admin"})

	_, _, _, ok := UserCtx(req)
	if ok {
		t.Error("expected ok=false for malformed user id (fail closed)")
	}
}

func TestUserCtx_Valid(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: id.Hex(), Name: "Pat", Role: "Admin"})

	role, name, userID, ok := UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "admin" {
		t.Errorf("role: got %q, want lowercased %q", role, "admin")
	}
	if name != "Pat" || userID != id {
		t.Errorf("unexpected identity: name=%q id=%v", name, userID)
	}
}

func TestIsAdmin(t *testing.T) {
	id := primitive.NewObjectID()

	adminReq := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: id.Hex(), Role: "admin"})
	if !IsAdmin(adminReq) {
		t.Error("expected IsAdmin=true for admin")
	}

	userReq := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: id.Hex(), Role: "user"})
	if IsAdmin(userReq) {
		t.Error("expected IsAdmin=false for regular user")
	}

	if IsAdmin(httptest.NewRequest("GET", "/", nil)) {
		t.Error("expected IsAdmin=false without a session")
	}
}
