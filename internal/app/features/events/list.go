// internal/app/features/events/list.go
package events

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	"github.com/dalemusser/volunteerhub/internal/app/system/httpjson"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// writeList shapes and writes an event list with caching disabled. Event
// lists change on every join/leave, so intermediaries must not serve stale
// copies.
func (h *Handler) writeList(w http.ResponseWriter, events []eventstore.WithOrganizer, err error, what string) {
	if err != nil {
		h.Log.Error("event list failed", zap.String("list", what), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.NoStore(w)
	httpjson.Write(w, http.StatusOK, viewsOf(events))
}

// ServeList handles GET /api/events: the public browse page, approved events
// only, soonest-first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.ListApproved(ctx)
	h.writeList(w, events, err, "approved")
}

// ServePending handles GET /api/events/pending: the admin review queue.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.ListPending(ctx)
	h.writeList(w, events, err, "pending")
}

// ServeRestricted handles GET /api/events/restricted.
func (h *Handler) ServeRestricted(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.ListRestricted(ctx)
	h.writeList(w, events, err, "restricted")
}

// ServeJoined handles GET /api/events/user/{userId}/joined.
func (h *Handler) ServeJoined(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, listErr := h.Events.ListJoined(ctx, userID)
	h.writeList(w, events, listErr, "joined")
}

// ServeCreated handles GET /api/events/created/{userId}: every event the
// user organized, including pending and rejected ones.
func (h *Handler) ServeCreated(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, listErr := h.Events.ListByOrganizer(ctx, userID)
	h.writeList(w, events, listErr, "created")
}

// ServeDetail handles GET /api/events/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
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
		h.Log.Error("event detail failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.Write(w, http.StatusOK, viewOf(event))
}
