// internal/app/features/events/membership.go
package events

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/policy/eventpolicy"
	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/httpjson"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeJoin handles POST /api/events/{id}/join. The capacity check and the
// duplicate check both live in the store's conditional update, so two
// racing joins on the last open slot cannot both succeed.
func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Event not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch err := h.Events.Join(ctx, eventID, userID); {
	case err == nil:
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.Error(w, http.StatusNotFound, "Event not found")
		return
	case errors.Is(err, eventstore.ErrAlreadyJoined):
		httpjson.Error(w, http.StatusBadRequest, "Already joined this event")
		return
	case errors.Is(err, eventstore.ErrCapacityFull):
		httpjson.Error(w, http.StatusBadRequest, "Event is at full capacity")
		return
	default:
		h.Log.Error("event join failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Successfully joined event"})
}

// ServeLeave handles DELETE /api/events/{id}/leave. Leaving an event the user
// never joined is a success, matching the store's idempotent semantics.
func (h *Handler) ServeLeave(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Event not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Events.Leave(ctx, eventID, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("event leave failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Successfully left event"})
}

// ServeVolunteers handles GET /api/events/{id}/volunteers. Only the event's
// organizer or an admin may see attendee identities.
func (h *Handler) ServeVolunteers(w http.ResponseWriter, r *http.Request) {
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Event not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("event load for volunteers failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if !eventpolicy.CanManage(r, &event.Event) {
		httpjson.Error(w, http.StatusForbidden, "Not authorized to view volunteers for this event")
		return
	}

	volunteers, err := h.Events.Volunteers(ctx, eventID)
	if err != nil {
		h.Log.Error("volunteer list failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if volunteers == nil {
		volunteers = []eventstore.Volunteer{}
	}
	httpjson.NoStore(w)
	httpjson.Write(w, http.StatusOK, volunteers)
}

// ServeRemoveVolunteer handles DELETE /api/events/{id}/volunteers/{userId}.
// Organizer or admin only; reuses Leave so both sides of the membership link
// are updated.
func (h *Handler) ServeRemoveVolunteer(w http.ResponseWriter, r *http.Request) {
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Event not found")
		return
	}
	volunteerID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("event load for volunteer removal failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if !eventpolicy.CanManage(r, &event.Event) {
		httpjson.Error(w, http.StatusForbidden, "Not authorized to manage volunteers for this event")
		return
	}

	if err := h.Events.Leave(ctx, eventID, volunteerID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("volunteer removal failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Volunteer removed successfully"})
}
