// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// PUBLIC
	r.Get("/", h.ServeList)
	r.Get("/user/{userId}/joined", h.ServeJoined)
	r.Get("/created/{userId}", h.ServeCreated)

	// ADMIN REVIEW QUEUES (registered before /{id} so chi does not treat
	// "pending" as an event id)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin"))

		pr.Get("/pending", h.ServePending)
		pr.Get("/restricted", h.ServeRestricted)
		pr.Put("/{id}/approve", h.ServeApprove)
		pr.Put("/{id}/reject", h.ServeReject)
		pr.Put("/{id}/restrict", h.ServeRestrict)
	})

	// SIGNED-IN
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.ServeCreate)
		pr.Post("/{id}/join", h.ServeJoin)
		pr.Delete("/{id}/leave", h.ServeLeave)
		pr.Delete("/{id}", h.ServeDelete)

		pr.Get("/{id}/volunteers", h.ServeVolunteers)
		pr.Delete("/{id}/volunteers/{userId}", h.ServeRemoveVolunteer)
	})

	// PUBLIC DETAIL (last so the literal routes above win)
	r.Get("/{id}", h.ServeDetail)

	return r
}
