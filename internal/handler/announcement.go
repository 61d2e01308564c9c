package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/esxdocs/esxdocs/internal/auth"
	"github.com/esxdocs/esxdocs/internal/handler/dto"
	"github.com/esxdocs/esxdocs/internal/service"
)

// AnnouncementHandler handles exchange announcement endpoints.
type AnnouncementHandler struct {
	svc    *service.AnnouncementService
	logger *slog.Logger
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(svc *service.AnnouncementService, logger *slog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/announcements.
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	session := auth.SessionFromContext(r.Context())

	announcement, err := h.svc.Create(r.Context(), session, service.CreateAnnouncementInput{
		Title:   req.Title,
		Message: req.Message,
		To:      req.To,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("announcement_posted",
		"announcement_id", announcement.ID,
		"broadcast", announcement.To == "",
	)

	writeJSON(w, http.StatusCreated, announcement)
}

// List handles GET /api/v1/announcements.
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	announcements, err := h.svc.List(r.Context(), session)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(announcements))
}

func (h *AnnouncementHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Operation requires ADMIN role")
	case errors.Is(err, service.ErrAnnouncementTitleRequired):
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", "Title is required")
	case errors.Is(err, service.ErrAnnouncementMessageRequired):
		writeError(w, http.StatusBadRequest, "MISSING_MESSAGE", "Message is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
