// internal/app/features/events/lifecycle.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/policy/eventpolicy"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/volunteerhub/internal/app/system/httpjson"
	"github.com/dalemusser/volunteerhub/internal/app/system/normalize"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// createRequest accepts tags as either a JSON array or one comma-delimited
// string, because the SPA's form component has sent both over time.
type createRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	Type          string          `json:"type"`
	Location      string          `json:"location"`
	Tags          json.RawMessage `json:"tags"`
	ImageURL      string          `json:"imageUrl"`
	WhatToBring   string          `json:"whatToBring"`
	MaxVolunteers int             `json:"maxVolunteers"`
}

func (req *createRequest) parseTags() []string {
	if len(req.Tags) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(req.Tags, &list); err == nil {
		return normalize.Tags(list)
	}
	var s string
	if err := json.Unmarshal(req.Tags, &s); err == nil {
		return normalize.SplitTags(s)
	}
	return []string{}
}

func (req *createRequest) validate() []httpjson.FieldError {
	var errs []httpjson.FieldError
	if normalize.Name(req.Title) == "" {
		errs = append(errs, httpjson.FieldError{Field: "title", Message: "Title is required"})
	}
	if normalize.Name(req.Description) == "" {
		errs = append(errs, httpjson.FieldError{Field: "description", Message: "Description is required"})
	}
	if _, err := parseEventDate(req.Date); err != nil {
		errs = append(errs, httpjson.FieldError{Field: "date", Message: "Valid date is required"})
	}
	if !models.IsValidEventType(req.Type) {
		errs = append(errs, httpjson.FieldError{Field: "type", Message: "Type must be virtual or in-person"})
	}
	if req.Type == models.TypeInPerson && normalize.Name(req.Location) == "" {
		errs = append(errs, httpjson.FieldError{Field: "location", Message: "Location is required for in-person events"})
	}
	return errs
}

// parseEventDate accepts RFC3339 or a bare date, the two formats the SPA's
// date picker produces.
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// ServeCreate handles POST /api/events. Any authenticated user may create;
// the event starts pending until an admin reviews it.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		httpjson.ValidationError(w, errs)
		return
	}
	date, _ := parseEventDate(req.Date)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Events.Create(ctx, models.Event{
		Title:         req.Title,
		Description:   htmlsanitize.StrictText(req.Description),
		Date:          date,
		Type:          req.Type,
		Location:      normalize.Name(req.Location),
		Tags:          req.parseTags(),
		ImageURL:      req.ImageURL,
		WhatToBring:   htmlsanitize.StrictText(req.WhatToBring),
		MaxVolunteers: req.MaxVolunteers,
		Organizer:     userID,
	})
	if err != nil {
		h.Log.Error("event create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	// Return the enriched view the SPA expects (organizer name resolved).
	joined, err := h.Events.GetByID(ctx, created.ID)
	if err != nil {
		h.Log.Error("event reload after create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.Write(w, http.StatusCreated, viewOf(joined))
}

// statusResponse is the trimmed body returned by the admin status endpoints.
type statusResponse struct {
	ID            primitive.ObjectID `json:"id"`
	LegacyID      primitive.ObjectID `json:"_id"`
	Title         string             `json:"title"`
	Status        string             `json:"status"`
	OrganizerName string             `json:"organizerName"`
	AdminReason   string             `json:"adminReason,omitempty"`
	Message       string             `json:"message,omitempty"`
}

// setStatus is shared by approve and reject. Admin-only (enforced by route
// middleware). The status is overwritten regardless of the current state.
func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Event not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Events.SetStatus(ctx, eventID, status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("event status update failed",
			zap.String("status", status), zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		h.Log.Error("event reload after status update failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	v := viewOf(event)
	httpjson.Write(w, http.StatusOK, statusResponse{
		ID:            v.ID,
		LegacyID:      v.ID,
		Title:         v.Title,
		Status:        v.Status,
		OrganizerName: v.OrganizerName,
	})
}

// ServeApprove handles PUT /api/events/{id}/approve.
func (h *Handler) ServeApprove(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.StatusApproved)
}

// ServeReject handles PUT /api/events/{id}/reject.
func (h *Handler) ServeReject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.StatusRejected)
}

type restrictRequest struct {
	IsRestricted bool   `json:"isRestricted"`
	Reason       string `json:"reason"`
}

// ServeRestrict handles PUT /api/events/{id}/restrict. Admin-only.
// Restriction is binary and always resolves to approved or restricted.
func (h *Handler) ServeRestrict(w http.ResponseWriter, r *http.Request) {
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Event not found")
		return
	}

	var req restrictRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Events.SetRestriction(ctx, eventID, req.IsRestricted, req.Reason); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("event restriction update failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		h.Log.Error("event reload after restriction update failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	message := "Event unrestricted successfully"
	if req.IsRestricted {
		message = "Event restricted successfully"
	}
	v := viewOf(event)
	httpjson.Write(w, http.StatusOK, statusResponse{
		ID:          v.ID,
		LegacyID:    v.ID,
		Title:       v.Title,
		Status:      v.Status,
		AdminReason: v.AdminReason,
		Message:     message,
	})
}

// ServeDelete handles DELETE /api/events/{id}. Organizer or admin only.
// Deletion cascades through users' joined/created lists in the store.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Event not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		h.Log.Error("event load for delete failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if !eventpolicy.CanManage(r, &event.Event) {
		httpjson.Error(w, http.StatusForbidden, "Not authorized to delete this event")
		return
	}

	if err := h.Events.Delete(ctx, eventID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("event delete failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}
