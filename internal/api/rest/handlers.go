package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/SriRamz25/payshield/internal/service/assessment"
)

// EventReader serves the sender's recent audit entries.
type EventReader interface {
	RecentBySender(ctx context.Context, senderID string, limit int) ([]*assessment.RiskEvent, error)
}

// Handler holds the HTTP handlers for the risk API.
type Handler struct {
	service assessment.Service
	events  EventReader
	logger  *slog.Logger
}

func NewHandler(service assessment.Service, events EventReader, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		events:  events,
		logger:  logger,
	}
}

// Routes registers the API routes on the given mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/risk/evaluations", h.handleEvaluate)
	mux.HandleFunc("GET /api/v1/risk/events/{senderID}", h.handleSenderEvents)
}

// handleEvaluate runs the three-layer assessment for one payment
// intent and returns the verdict.
func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, r, "INVALID_BODY", "Request body must be valid JSON")
		return
	}

	if err := req.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			writeValidationError(w, r, "INVALID_INTENT", "Invalid field: "+verrs[0].Field())
			return
		}
		writeValidationError(w, r, "INVALID_INTENT", "Invalid request")
		return
	}

	intent, err := req.ToIntent()
	if err != nil {
		writeError(w, r, err)
		return
	}

	eval, err := h.service.Evaluate(r.Context(), intent, req.Persist)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEvaluateResponse(eval))
}

// handleSenderEvents returns the sender's recent risk events, newest
// first.
func (h *Handler) handleSenderEvents(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		writeValidationError(w, r, "EVENTS_DISABLED", "Risk event storage is not configured")
		return
	}

	senderID := r.PathValue("senderID")
	if senderID == "" {
		writeValidationError(w, r, "INVALID_SENDER", "Sender id must not be empty")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeValidationError(w, r, "INVALID_LIMIT", "Limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := h.events.RecentBySender(r.Context(), senderID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventListResponse(events))
}
