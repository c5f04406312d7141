package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/moneytrack-io/moneytrack/internal/models"
	"github.com/moneytrack-io/moneytrack/internal/respond"
)

// Handler serves the /api/auth routes.
type Handler struct {
	users  *UserStore
	tokens *TokenManager
	dev    bool
}

// NewHandler wires the auth handlers to their collaborators. When dev is
// true, server error responses include the underlying error message.
func NewHandler(users *UserStore, tokens *TokenManager, dev bool) *Handler {
	return &Handler{users: users, tokens: tokens, dev: dev}
}

type registerRequest struct {
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userSummary(u *models.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"firstname": u.Firstname,
		"email":     u.Email,
	}
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := ValidateRegistration(req.Name, req.Firstname, req.Email, req.Password); len(errs) > 0 {
		respond.ValidationErrors(w, errs)
		return
	}

	user, err := h.users.Create(req.Name, req.Firstname, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyTaken) {
			respond.Error(w, http.StatusBadRequest, "User already exists with this email")
			return
		}
		h.serverError(w, "Server error during registration", err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.serverError(w, "Server error during registration", err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"token":   token,
		"user":    userSummary(user),
	})
}

// Login handles POST /api/auth/login. Unknown email and wrong password
// produce the exact same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := ValidateLogin(req.Email, req.Password); len(errs) > 0 {
		respond.ValidationErrors(w, errs)
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.serverError(w, "Server error during login", err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.serverError(w, "Server error during login", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    userSummary(user),
	})
}

// Profile handles GET /api/auth/profile and returns the caller's own
// non-sensitive fields.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.serverError(w, "Server error getting profile", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":         user.ID,
			"name":       user.Name,
			"firstname":  user.Firstname,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}

// Verify handles GET /api/auth/verify; it echoes the decoded claims as a
// token liveness check.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Token is valid",
		"user": map[string]any{
			"id":        claims.UserID,
			"email":     claims.Email,
			"name":      claims.Name,
			"firstname": claims.Firstname,
		},
	})
}

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	log.Printf("[AUTH] %s: %v", message, err)
	if h.dev {
		respond.JSON(w, http.StatusInternalServerError, map[string]string{
			"message": message,
			"error":   err.Error(),
		})
		return
	}
	respond.Error(w, http.StatusInternalServerError, message)
}
