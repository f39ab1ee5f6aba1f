// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, and request limits. AppConfig is
// where everything specific to VolunteerHub lives: the Mongo connection,
// session cookies, the SPA origin, and the Google sign-in credentials.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: volunteerhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// CORSOrigins lists the browser origins allowed to call the API with
	// credentials, comma separated (the SPA dev server and the deployed
	// frontend).
	CORSOrigins []string

	// BaseURL is this API's public URL, used to build the OAuth callback.
	BaseURL string
	// FrontendURL is where the SPA lives; sign-in flows redirect back here.
	FrontendURL string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string
}
