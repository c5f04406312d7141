package objectives

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/moneytrack-io/moneytrack/internal/auth"
	"github.com/moneytrack-io/moneytrack/internal/respond"
)

// Handler serves the /api/objectives routes.
type Handler struct {
	store *Store
	dev   bool
}

// NewHandler wires the objective handlers to their store.
func NewHandler(store *Store, dev bool) *Handler {
	return &Handler{store: store, dev: dev}
}

type objectiveRequest struct {
	Title         string  `json:"title"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Deadline      string  `json:"deadline"`
}

func (r objectiveRequest) fields() Fields {
	return Fields{
		Title:         r.Title,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Deadline:      r.Deadline,
	}
}

func validate(f Fields) []respond.FieldError {
	var errs []respond.FieldError
	if strings.TrimSpace(f.Title) == "" {
		errs = append(errs, respond.FieldError{Field: "title", Message: "Title is required"})
	}
	if f.TargetAmount <= 0 {
		errs = append(errs, respond.FieldError{Field: "target_amount", Message: "Target amount must be a positive number"})
	}
	if f.CurrentAmount < 0 {
		errs = append(errs, respond.FieldError{Field: "current_amount", Message: "Current amount cannot be negative"})
	}
	if f.Deadline != "" {
		if _, err := time.Parse("2006-01-02", f.Deadline); err != nil {
			errs = append(errs, respond.FieldError{Field: "deadline", Message: "Deadline must be a valid date (YYYY-MM-DD)"})
		}
	}
	return errs
}

// Create handles POST /api/objectives.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	var req objectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := req.fields()
	if errs := validate(fields); len(errs) > 0 {
		respond.ValidationErrors(w, errs)
		return
	}

	created, err := h.store.Create(claims.UserID, fields)
	if err != nil {
		h.serverError(w, "Server error creating objective", err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message":   "Objective created successfully",
		"objective": created,
	})
}

// List handles GET /api/objectives.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	items, err := h.store.List(claims.UserID)
	if err != nil {
		h.serverError(w, "Server error getting objectives", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"objectives": items})
}

// Update handles PUT /api/objectives/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req objectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := req.fields()
	if errs := validate(fields); len(errs) > 0 {
		respond.ValidationErrors(w, errs)
		return
	}

	if err := h.store.Update(claims.UserID, id, fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Objective not found or you do not have permission to update it")
			return
		}
		h.serverError(w, "Server error updating objective", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Objective updated successfully"})
}

// Delete handles DELETE /api/objectives/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(claims.UserID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Objective not found or you do not have permission to delete it")
			return
		}
		h.serverError(w, "Server error deleting objective", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Objective deleted successfully"})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.ValidationErrors(w, []respond.FieldError{
			{Field: "id", Message: "Objective ID must be an integer"},
		})
		return 0, false
	}
	return id, true
}

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	log.Printf("[OBJECTIVES] %s: %v", message, err)
	if h.dev {
		respond.JSON(w, http.StatusInternalServerError, map[string]string{
			"message": message,
			"error":   err.Error(),
		})
		return
	}
	respond.Error(w, http.StatusInternalServerError, message)
}
