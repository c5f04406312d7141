package transactions

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/moneytrack-io/moneytrack/internal/auth"
	"github.com/moneytrack-io/moneytrack/internal/respond"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Handler serves the /api/transactions routes.
type Handler struct {
	store *Store
	dev   bool
}

// NewHandler wires the transaction handlers to the query engine.
func NewHandler(store *Store, dev bool) *Handler {
	return &Handler{store: store, dev: dev}
}

type transactionRequest struct {
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"payment_method"`
	Date          string  `json:"date"`
}

func (r transactionRequest) fields() Fields {
	return Fields{
		Type:          r.Type,
		Amount:        r.Amount,
		Description:   r.Description,
		Category:      r.Category,
		PaymentMethod: r.PaymentMethod,
		Date:          r.Date,
	}
}

// Create handles POST /api/transactions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := req.fields()
	if errs := Validate(fields); len(errs) > 0 {
		respond.ValidationErrors(w, errs)
		return
	}

	created, err := h.store.Create(claims.UserID, fields)
	if err != nil {
		h.serverError(w, "Server error creating transaction", err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message":     "Transaction created successfully",
		"transaction": created,
	})
}

// List handles GET /api/transactions. Invalid or missing page and limit
// values fall back to 1 and 10; limit is capped at 100.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	q := r.URL.Query()
	page := coercePositive(q.Get("page"), defaultPage, 0)
	limit := coercePositive(q.Get("limit"), defaultLimit, maxLimit)

	filter := Filter{
		Type:      q.Get("type"),
		Category:  q.Get("category"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}

	items, total, err := h.store.List(claims.UserID, filter, page, limit)
	if err != nil {
		h.serverError(w, "Server error getting transactions", err)
		return
	}

	pages := (total + limit - 1) / limit

	respond.JSON(w, http.StatusOK, map[string]any{
		"transactions": items,
		"pagination": map[string]int{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

// Stats handles GET /api/transactions/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	period := r.URL.Query().Get("period")
	switch period {
	case "week", "month", "year":
	default:
		period = "month"
	}

	summary, breakdown, err := h.store.Stats(claims.UserID, period)
	if err != nil {
		h.serverError(w, "Server error getting transaction stats", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"period":            period,
		"stats":             summary,
		"categoryBreakdown": breakdown,
	})
}

// Update handles PUT /api/transactions/{id}; all fields are required and
// re-validated.
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

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := req.fields()
	if errs := Validate(fields); len(errs) > 0 {
		respond.ValidationErrors(w, errs)
		return
	}

	if err := h.store.Update(claims.UserID, id, fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Transaction not found or you do not have permission to update it")
			return
		}
		h.serverError(w, "Server error updating transaction", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Transaction updated successfully"})
}

// Delete handles DELETE /api/transactions/{id}.
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
			respond.Error(w, http.StatusNotFound, "Transaction not found or you do not have permission to delete it")
			return
		}
		h.serverError(w, "Server error deleting transaction", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.ValidationErrors(w, []respond.FieldError{
			{Field: "id", Message: "Transaction ID must be an integer"},
		})
		return 0, false
	}
	return id, true
}

// coercePositive turns a query parameter into a positive integer,
// defaulting anything missing, non-numeric or non-positive. A max of 0
// means uncapped.
func coercePositive(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	log.Printf("[TRANSACTIONS] %s: %v", message, err)
	if h.dev {
		respond.JSON(w, http.StatusInternalServerError, map[string]string{
			"message": message,
			"error":   err.Error(),
		})
		return
	}
	respond.Error(w, http.StatusInternalServerError, message)
}
