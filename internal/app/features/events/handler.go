// internal/app/features/events/handler.go
package events

import (
	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the event lifecycle and membership REST surface.
type Handler struct {
	Events *eventstore.Store
	Users  *userstore.Store
	Log    *zap.Logger
}

// NewHandler constructs an events Handler backed by the given database.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Events: eventstore.New(db),
		Users:  userstore.New(db),
		Log:    logger,
	}
}
