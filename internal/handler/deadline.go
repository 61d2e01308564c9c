package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/esxdocs/esxdocs/internal/auth"
	"github.com/esxdocs/esxdocs/internal/handler/dto"
	"github.com/esxdocs/esxdocs/internal/service"
)

// DeadlineHandler handles regulatory deadline endpoints.
type DeadlineHandler struct {
	svc    *service.DeadlineService
	logger *slog.Logger
}

// NewDeadlineHandler creates a new DeadlineHandler.
func NewDeadlineHandler(svc *service.DeadlineService, logger *slog.Logger) *DeadlineHandler {
	return &DeadlineHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/deadlines.
func (h *DeadlineHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	deadlines, err := h.svc.List(r.Context(), session)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(deadlines))
}

// Upcoming handles GET /api/v1/deadlines/upcoming.
func (h *DeadlineHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	deadlines, err := h.svc.Upcoming(r.Context(), session)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(deadlines))
}

// Create handles POST /api/v1/deadlines.
func (h *DeadlineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	session := auth.SessionFromContext(r.Context())

	deadline, err := h.svc.Create(r.Context(), session, service.CreateDeadlineInput{
		Type:        req.Type,
		Deadline:    req.Deadline,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("deadline_created",
		"deadline_id", deadline.ID,
		"type", deadline.Type,
	)

	writeJSON(w, http.StatusCreated, deadline)
}

// Update handles PATCH /api/v1/deadlines/{id}.
func (h *DeadlineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Deadline ID is required")
		return
	}

	var req dto.UpdateDeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	session := auth.SessionFromContext(r.Context())

	deadline, err := h.svc.Update(r.Context(), session, id, service.UpdateDeadlineInput{
		Type:        req.Type,
		Deadline:    req.Deadline,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("deadline_updated", "deadline_id", deadline.ID)

	writeJSON(w, http.StatusOK, deadline)
}

// Delete handles DELETE /api/v1/deadlines/{id}.
func (h *DeadlineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Deadline ID is required")
		return
	}

	session := auth.SessionFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), session, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("deadline_deleted", "deadline_id", id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *DeadlineHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Operation requires ADMIN role")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "DEADLINE_NOT_FOUND", "Deadline not found")
	case errors.Is(err, service.ErrDeadlineTypeRequired):
		writeError(w, http.StatusBadRequest, "MISSING_TYPE", "Deadline type is required")
	case errors.Is(err, service.ErrDeadlineDateRequired):
		writeError(w, http.StatusBadRequest, "MISSING_DATE", "Deadline date is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
