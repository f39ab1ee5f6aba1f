// internal/app/policy/eventpolicy.go
package eventpolicy

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanManage reports whether the current request user may delete the event,
// list its volunteers, or remove volunteers from it:
//   - Admins always can
//   - The organizer who created the event always can, regardless of role
//
// The "organizer" account role grants nothing here; management rights come
// from owning the specific event.
func CanManage(r *http.Request, event *models.Event) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == "admin" {
		return true
	}
	return event.Organizer == uid
}

// IsOrganizer reports whether the given user id created the event.
func IsOrganizer(event *models.Event, userID primitive.ObjectID) bool {
	return event.Organizer == userID
}
