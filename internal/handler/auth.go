package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/esxdocs/esxdocs/internal/auth"
	"github.com/esxdocs/esxdocs/internal/cache"
	"github.com/esxdocs/esxdocs/internal/handler/dto"
	"github.com/esxdocs/esxdocs/internal/middleware"
	"github.com/esxdocs/esxdocs/internal/service"
)

// loginLimiter throttles sign-in attempts per handle.
type loginLimiter interface {
	CheckLoginRateLimit(ctx context.Context, handle string, ratePerMinute, burst int) (*cache.RateLimitResult, error)
}

// AuthConfig holds knobs for the auth handler.
type AuthConfig struct {
	SessionTTL      time.Duration
	SecureCookie    bool
	LoginRatePerMin int
	LoginBurst      int
}

// AuthHandler handles registration, sign-in, and session endpoints.
type AuthHandler struct {
	svc     *service.UserService
	limiter loginLimiter
	cfg     AuthConfig
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.UserService, limiter loginLimiter, cfg AuthConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.RegisterIssuer(r.Context(), service.RegisterIssuerInput{
		BankName:            req.BankName,
		BankCode:            req.BankCode,
		LicenseNumber:       req.LicenseNumber,
		TIN:                 req.TIN,
		HeadquartersAddress: req.HeadquartersAddress,
		AdminName:           req.AdminName,
		AdminPhone:          req.AdminPhone,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("issuer_registered",
		"user_id", user.ID,
		"email", user.Email,
	)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /api/v1/auth/login.
// Attempts are throttled per handle; the same generic error covers wrong
// passwords and unknown handles.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Handle == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "MISSING_CREDENTIALS", "Handle and password are required")
		return
	}

	if h.limiter != nil {
		result, err := h.limiter.CheckLoginRateLimit(r.Context(), req.Handle, h.cfg.LoginRatePerMin, h.cfg.LoginBurst)
		if err != nil {
			// Redis being down must not lock everyone out.
			h.logger.Error("login_rate_limit_check_failed", "error", err)
		} else if !result.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many sign-in attempts, try again later")
			return
		}
	}

	session, token, err := h.svc.SignIn(r.Context(), req.Handle, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, h.cfg.SessionTTL))

	h.logger.Info("sign_in",
		"user_id", session.UserID,
		"role", string(session.Role),
	)

	writeJSON(w, http.StatusOK, dto.ToSessionResponse(session))
}

// Logout handles POST /api/v1/auth/logout. Always succeeds; signing out
// of an expired session is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := auth.SessionFromContext(r.Context()); session != nil {
		if err := h.svc.SignOut(r.Context(), session.Token); err != nil {
			h.logger.Error("sign_out_failed", "error", err)
		}
	}

	http.SetCookie(w, h.sessionCookie("", -time.Second))
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles POST /api/v1/auth/password. On success every
// other session of the user is revoked; the current one stays signed in.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "MISSING_CREDENTIALS", "Current and new password are required")
		return
	}

	session := auth.SessionFromContext(r.Context())

	if err := h.svc.ChangePassword(r.Context(), session, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("password_changed", "user_id", session.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/v1/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	writeJSON(w, http.StatusOK, dto.ToSessionResponse(session))
}

func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid bank code or password")
	case errors.Is(err, service.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 8 characters")
	case errors.Is(err, service.ErrInvalidBankCode):
		writeError(w, http.StatusBadRequest, "INVALID_BANK_CODE", "Bank code must be 3-20 uppercase letters or digits")
	case errors.Is(err, service.ErrInvalidBankName):
		writeError(w, http.StatusBadRequest, "INVALID_BANK_NAME", "Bank name must be at least 3 characters")
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusConflict, "ISSUER_EXISTS", "Issuer with this bank code is already registered")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
