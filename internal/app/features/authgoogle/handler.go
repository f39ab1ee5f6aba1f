// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const stateCookieName = "vh_oauth_state"

// Handler runs the Google sign-in flow. Accounts are created on first
// sign-in keyed by email; such accounts carry no password hash.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string
	FrontendURL  string

	// stateCodec signs the short-lived state cookie that ties the callback
	// to the browser that started the flow.
	stateCodec *securecookie.SecureCookie
}

func NewHandler(db *mongo.Database, clientID, clientSecret, baseURL, frontendURL, sessionKey string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  strings.TrimRight(baseURL, "/") + "/api/auth/google/callback",
		FrontendURL:  strings.TrimRight(frontendURL, "/"),
		stateCodec:   securecookie.New([]byte(sessionKey), nil),
	}
}

// IsConfigured reports whether Google credentials were provided.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// ServeLogin handles GET /api/auth/google: sets the state cookie and sends
// the browser to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google sign-in not configured")
		h.redirectToFrontend(w, r, "error=google_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		h.redirectToFrontend(w, r, "error=internal")
		return
	}

	encoded, err := h.stateCodec.Encode(stateCookieName, state)
	if err != nil {
		h.Log.Error("failed to encode OAuth state cookie", zap.Error(err))
		h.redirectToFrontend(w, r, "error=internal")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /api/auth/google/callback: validates state,
// exchanges the code, loads the Google profile, signs the user in, and
// bounces back to the SPA.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google sign-in denied", zap.String("error", errParam))
		h.redirectToFrontend(w, r, "error=google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if state == "" || err != nil {
		h.Log.Warn("missing OAuth state")
		h.redirectToFrontend(w, r, "error=invalid_state")
		return
	}
	var expected string
	if err := h.stateCodec.Decode(stateCookieName, cookie.Value, &expected); err != nil || expected != state {
		h.Log.Warn("OAuth state mismatch")
		h.redirectToFrontend(w, r, "error=invalid_state")
		return
	}
	clearStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectToFrontend(w, r, "error=invalid_code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("OAuth code exchange failed", zap.Error(err))
		h.redirectToFrontend(w, r, "error=token_exchange")
		return
	}

	profile, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("Google user info fetch failed", zap.Error(err))
		h.redirectToFrontend(w, r, "error=user_info")
		return
	}
	if profile.Email == "" {
		h.redirectToFrontend(w, r, "error=user_info")
		return
	}

	user, err := h.Users.UpsertOAuth(ctx, profile.Name, profile.Email, "google")
	if err != nil {
		h.Log.Error("Google sign-in account upsert failed", zap.Error(err))
		h.redirectToFrontend(w, r, "error=internal")
		return
	}

	err = auth.SignIn(w, r, &auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		h.Log.Error("session save failed after Google sign-in", zap.Error(err))
		h.redirectToFrontend(w, r, "error=internal")
		return
	}

	h.Log.Info("Google sign-in completed", zap.String("user_id", user.ID.Hex()))
	h.redirectToFrontend(w, r, "")
}

func (h *Handler) redirectToFrontend(w http.ResponseWriter, r *http.Request, query string) {
	target := h.FrontendURL
	if target == "" {
		target = "/"
	}
	if query != "" {
		target += "/login?" + query
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// googleUserInfo is the subset of Google's userinfo payload we use.
type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
