package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/esxdocs/esxdocs/internal/auth"
	"github.com/esxdocs/esxdocs/internal/handler/dto"
	"github.com/esxdocs/esxdocs/internal/model"
	"github.com/esxdocs/esxdocs/internal/service"
)

// UserHandler handles admin user management endpoints.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	users, err := h.svc.ListUsers(r.Context(), session)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.ToUserListResponse(users)))
}

// SetRole handles PATCH /api/v1/users/{id}/role.
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return
	}

	var req dto.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	session := auth.SessionFromContext(r.Context())

	user, err := h.svc.SetRole(r.Context(), session, id, model.Role(req.Role))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("role_changed",
		"user_id", user.ID,
		"role", string(user.Role),
		"actor", session.UserID,
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Operation requires ADMIN role")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "INVALID_ROLE", "Role must be ADMIN or USER")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
