package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/esxdocs/esxdocs/internal/auth"
	"github.com/esxdocs/esxdocs/internal/metrics"
	"github.com/esxdocs/esxdocs/internal/model"
	"github.com/esxdocs/esxdocs/internal/repository"
)

// Validation errors for issuer registration and sign-in.
var (
	ErrInvalidBankCode = errors.New("bank code must be 3-20 uppercase letters or digits")
	ErrInvalidBankName = errors.New("bank name must be at least 3 characters")
	ErrInvalidRole     = errors.New("role must be ADMIN or USER")
	ErrWeakPassword    = errors.New("password must be at least 8 characters")
)

// minPasswordLen applies to self-chosen passwords, not the derived
// onboarding default.
const minPasswordLen = 8

// Bank code format mirrors the registration form: 3-20 uppercase
// letters/digits (e.g. CBE001).
var bankCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// defaultPasswordSuffix is appended to the bank code to form the initial
// password communicated to the issuer at onboarding.
const defaultPasswordSuffix = "@12341234"

// userStore is the subset of the repository the user service needs.
type userStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUserRole(ctx context.Context, id string, role model.Role) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
}

// sessionStore persists server-side sessions keyed by token hash.
type sessionStore interface {
	SetSession(ctx context.Context, tokenHash string, session *model.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteUserSessions(ctx context.Context, userID, keepTokenHash string) error
}

// UserService handles issuer onboarding, sign-in, and role management.
type UserService struct {
	users        userStore
	sessions     sessionStore
	tenantDomain string
	sessionTTL   time.Duration
	metrics      metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(users userStore, sessions sessionStore, tenantDomain string, sessionTTL time.Duration, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		users:        users,
		sessions:     sessions,
		tenantDomain: tenantDomain,
		sessionTTL:   sessionTTL,
		metrics:      recorder,
	}
}

// RegisterIssuerInput carries the onboarding form fields.
type RegisterIssuerInput struct {
	BankName            string
	BankCode            string
	LicenseNumber       string
	TIN                 string
	HeadquartersAddress string
	AdminName           string
	AdminPhone          string
}

// RegisterIssuer onboards a bank/issuer. The login email is synthesized
// from the bank code and the tenant domain, and the initial password is
// derived from the code (communicated out-of-band at onboarding).
func (s *UserService) RegisterIssuer(ctx context.Context, input RegisterIssuerInput) (*model.User, error) {
	code := strings.TrimSpace(input.BankCode)
	if !bankCodeRegex.MatchString(code) {
		return nil, ErrInvalidBankCode
	}
	if len(strings.TrimSpace(input.BankName)) < 3 {
		return nil, ErrInvalidBankName
	}

	defaultPassword := code + defaultPasswordSuffix
	hash, err := auth.HashPassword(defaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash default password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.BankName) + " - " + strings.TrimSpace(input.AdminName),
		Email:        strings.ToLower(code) + "@" + s.tenantDomain,
		Role:         model.RoleUser,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create issuer: %w", err)
	}

	return user, nil
}

// SignIn verifies credentials and opens a server-side session. The handle
// is a bank code (resolved against the tenant domain) or a full email.
// Returns the session and the opaque token to hand to the client.
func (s *UserService) SignIn(ctx context.Context, handle, password string) (*model.Session, string, error) {
	email := strings.ToLower(strings.TrimSpace(handle))
	if !strings.Contains(email, "@") {
		email = email + "@" + s.tenantDomain
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncSignIn("failed")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncSignIn("failed")
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, "", err
	}

	session := &model.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.SetSession(ctx, auth.QuickHash(token), session, s.sessionTTL); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}

	s.metrics.IncSignIn("success")
	return session, token, nil
}

// SignOut destroys the session for the given token. Unknown tokens are a
// no-op; sign-out is idempotent.
func (s *UserService) SignOut(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, auth.QuickHash(token))
}

// ChangePassword verifies the caller's current password and replaces it.
// Every other session of the user is revoked; the calling session stays
// valid so the client is not logged out mid-flow.
func (s *UserService) ChangePassword(ctx context.Context, session *model.Session, currentPassword, newPassword string) error {
	if session == nil {
		return ErrUnauthorized
	}
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("look up user: %w", err)
	}

	match, err := auth.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil || !match {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.sessions.DeleteUserSessions(ctx, user.ID, auth.QuickHash(session.Token)); err != nil {
		return fmt.Errorf("revoke other sessions: %w", err)
	}

	return nil
}

// ListUsers returns every registered user. ADMIN only.
func (s *UserService) ListUsers(ctx context.Context, session *model.Session) ([]model.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

// SetRole changes a user's role. ADMIN only; the acting session's role is
// re-verified here regardless of what the client claimed.
func (s *UserService) SetRole(ctx context.Context, session *model.Session, userID string, role model.Role) (*model.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	user, err := s.users.UpdateUserRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	return user, nil
}

// requireAdmin enforces the ADMIN gate shared by all privileged
// operations. A missing session is unauthorized, a non-admin session is
// forbidden; callers must not have performed any write before this check.
func requireAdmin(session *model.Session) error {
	if session == nil {
		return ErrUnauthorized
	}
	if !session.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
