// internal/app/features/users/handler.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/httpjson"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves public user profiles.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Users: userstore.New(db), Log: logger}
}

// profileView is the public profile payload: identity plus the dereferenced
// joined and created event documents. No password hash, no auth method.
type profileView struct {
	ID            primitive.ObjectID `json:"id"`
	LegacyID      primitive.ObjectID `json:"_id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Role          string             `json:"role"`
	JoinedEvents  []models.Event     `json:"joinedEvents"`
	CreatedEvents []models.Event     `json:"createdEvents"`
}

// ServeProfile handles GET /api/users/{id}.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := h.Users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("profile load failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	joined := profile.JoinedEvents
	if joined == nil {
		joined = []models.Event{}
	}
	created := profile.CreatedEvents
	if created == nil {
		created = []models.Event{}
	}

	httpjson.Write(w, http.StatusOK, profileView{
		ID:            profile.User.ID,
		LegacyID:      profile.User.ID,
		Name:          profile.Name,
		Email:         profile.Email,
		Role:          profile.Role,
		JoinedEvents:  joined,
		CreatedEvents: created,
	})
}
