// internal/app/features/authn/handler.go
package authn

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/authutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/httpjson"
	"github.com/dalemusser/volunteerhub/internal/app/system/normalize"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves email/password registration and session login.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Users: userstore.New(db), Log: logger}
}

// userResponse is the identity payload the SPA stores after register/login.
// id and _id carry the same value; the frontend reads both.
type userResponse struct {
	ID            primitive.ObjectID   `json:"id"`
	LegacyID      primitive.ObjectID   `json:"_id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Role          string               `json:"role"`
	JoinedEvents  []primitive.ObjectID `json:"joinedEvents,omitempty"`
	CreatedEvents []primitive.ObjectID `json:"createdEvents,omitempty"`
}

func responseOf(u *models.User, withEvents bool) userResponse {
	resp := userResponse{
		ID:       u.ID,
		LegacyID: u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
	}
	if withEvents {
		resp.JoinedEvents = u.JoinedEvents
		if resp.JoinedEvents == nil {
			resp.JoinedEvents = []primitive.ObjectID{}
		}
		resp.CreatedEvents = u.CreatedEvents
		if resp.CreatedEvents == nil {
			resp.CreatedEvents = []primitive.ObjectID{}
		}
	}
	return resp
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (req *registerRequest) validate() []httpjson.FieldError {
	var errs []httpjson.FieldError
	if normalize.Name(req.Name) == "" {
		errs = append(errs, httpjson.FieldError{Field: "name", Message: "Name is required"})
	}
	if !validEmail(normalize.Email(req.Email)) {
		errs = append(errs, httpjson.FieldError{Field: "email", Message: "Please enter a valid email"})
	}
	if len(req.Password) < 6 {
		errs = append(errs, httpjson.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if req.Role != "" && !models.IsValidRole(normalize.Role(req.Role)) {
		errs = append(errs, httpjson.FieldError{Field: "role", Message: "Invalid role"})
	}
	return errs
}

// ServeRegister handles POST /api/auth/register. A successful registration
// also signs the user in.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		httpjson.ValidationError(w, errs)
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Explicit pre-check for a friendly error; the unique index on email
	// still backs the race between check and insert.
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		httpjson.Error(w, http.StatusBadRequest, "User already exists")
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("user lookup failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   hash,
		Role:       req.Role,
		AuthMethod: "password",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.Log.Error("user create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if err := h.signIn(w, r, &user); err != nil {
		return
	}
	httpjson.Write(w, http.StatusCreated, responseOf(&user, false))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin handles POST /api/auth/login. Unknown email and wrong password
// produce the same 401 so the response does not leak which emails exist.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []httpjson.FieldError
	if !validEmail(normalize.Email(req.Email)) {
		errs = append(errs, httpjson.FieldError{Field: "email", Message: "Please enter a valid email"})
	}
	if req.Password == "" {
		errs = append(errs, httpjson.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		httpjson.ValidationError(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.Log.Error("user lookup failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if user.Password == "" || !authutil.CheckPassword(user.Password, req.Password) {
		httpjson.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := h.signIn(w, r, user); err != nil {
		return
	}
	httpjson.Write(w, http.StatusOK, responseOf(user, true))
}

// ServeLogout handles POST /api/auth/logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Error("sign-out failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Logout failed")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// ServeMe handles GET /api/auth/me. Reloads the user so the membership
// arrays reflect joins made after sign-in.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	sessUser, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}
	userID, err := primitive.ObjectIDFromHex(sessUser.ID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Account deleted while the session was live.
			httpjson.Error(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}
		h.Log.Error("current user load failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.Write(w, http.StatusOK, responseOf(user, true))
}

// signIn writes the session cookie; on failure the error response has
// already been sent.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	err := auth.SignIn(w, r, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  strings.ToLower(u.Role),
	})
	if err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Session error")
	}
	return err
}
