// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/dalemusser/volunteerhub/internal/app/features/authgoogle"
	authnfeature "github.com/dalemusser/volunteerhub/internal/app/features/authn"
	eventsfeature "github.com/dalemusser/volunteerhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/volunteerhub/internal/app/features/health"
	usersfeature "github.com/dalemusser/volunteerhub/internal/app/features/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// VolunteerHub is an API backend for a browser SPA, so the router carries
// CORS with credentials for the configured SPA origins, the session
// middleware, and the /api feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// The SPA sends the session cookie cross-origin, so credentials must be
	// allowed and origins listed explicitly.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	authnHandler := authnfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/auth", authnfeature.Routes(authnHandler))

	googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret,
		appCfg.BaseURL, appCfg.FrontendURL, appCfg.SessionKey, logger)
	r.Mount("/api/auth/google", authgooglefeature.Routes(googleHandler))

	// Events: browse, lifecycle, membership, admin review
	eventsHandler := eventsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/events", eventsfeature.Routes(eventsHandler))

	// Public user profiles
	usersHandler := usersfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler))

	return r, nil
}
