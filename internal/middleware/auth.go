package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/esxdocs/esxdocs/internal/auth"
	"github.com/esxdocs/esxdocs/internal/model"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "esx_session"

// sessionReader looks up a live session by token hash.
type sessionReader interface {
	GetSession(ctx context.Context, tokenHash string) (*model.Session, error)
}

// userReader re-fetches the user record behind a session.
type userReader interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// AuthConfig holds configuration for the session auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Sessions sessionReader
	Users    userReader
}

// Auth returns a middleware that authenticates requests by session token.
// The token comes from the session cookie or the Authorization header.
//
// The user's role is re-read from the user store on every request; the
// role stored inside the session is never trusted for authorization, so a
// demotion takes effect on the demoted user's very next request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			if !auth.ValidateTokenFormat(token) {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_format"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			session, err := cfg.Sessions.GetSession(r.Context(), auth.QuickHash(token))
			if err != nil {
				cfg.Logger.Error("session store error during auth",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}
			if session == nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "unknown_or_expired_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			user, err := cfg.Users.GetUserByID(r.Context(), session.UserID)
			if err != nil {
				// Treat a deleted user the same as an expired session.
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "user_lookup"),
					slog.String("user_id", session.UserID),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			session.Token = token
			session.Role = user.Role
			session.Name = user.Name
			session.Email = user.Email

			cfg.Logger.Info("authentication successful",
				slog.String("user_id", session.UserID),
				slog.String("role", string(session.Role)),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns middleware that rejects non-admin sessions.
// Must be applied after Auth. Services re-check the role themselves; this
// gate just fails the obvious cases before the handler runs.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := auth.SessionFromContext(r.Context())
			if session == nil {
				writeRoleError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			if !session.IsAdmin() {
				writeRoleError(w, http.StatusForbidden, "FORBIDDEN", "Operation requires ADMIN role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractSessionToken pulls the session token from the request.
// The cookie wins; the Authorization header is the fallback for
// non-browser clients.
func extractSessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	writeRoleError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing session")
}

// writeRoleError writes a role gate error response.
func writeRoleError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":` + strconv.Quote(message) + `,"code":` + strconv.Quote(code) + `}`))
}
