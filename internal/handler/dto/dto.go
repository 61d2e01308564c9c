// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/esxdocs/esxdocs/internal/model"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RegisterRequest represents the issuer onboarding form.
type RegisterRequest struct {
	BankName            string `json:"bank_name"`
	BankCode            string `json:"bank_code"`
	LicenseNumber       string `json:"license_number,omitempty"`
	TIN                 string `json:"tin,omitempty"`
	HeadquartersAddress string `json:"headquarters_address,omitempty"`
	AdminName           string `json:"admin_name"`
	AdminPhone          string `json:"admin_phone,omitempty"`
}

// LoginRequest represents a sign-in attempt. Handle is a bank code or a
// full email address.
type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents the password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// SessionResponse represents the authenticated identity returned by
// login and the session endpoint. The token itself travels in the
// cookie, never in the body.
type SessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// ToSessionResponse converts a Session to its API shape.
func ToSessionResponse(s *model.Session) *SessionResponse {
	return &SessionResponse{
		UserID: s.UserID,
		Email:  s.Email,
		Name:   s.Name,
		Role:   string(s.Role),
	}
}

// UserResponse represents a user in admin listings.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse converts a User to its API shape.
func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserListResponse converts a slice of users.
func ToUserListResponse(users []model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = *ToUserResponse(&users[i])
	}
	return out
}

// SetRoleRequest represents a role change.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// CreateDeadlineRequest represents a new regulatory deadline.
type CreateDeadlineRequest struct {
	Type        string    `json:"type"`
	Deadline    time.Time `json:"deadline"`
	Description string    `json:"description,omitempty"`
}

// UpdateDeadlineRequest represents a partial deadline update.
type UpdateDeadlineRequest struct {
	Type        *string    `json:"type,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// CreateAnnouncementRequest represents a new announcement. An empty To
// addresses every issuer.
type CreateAnnouncementRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	To      string `json:"to,omitempty"`
}

// ListResponse wraps collection payloads.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// NewListResponse builds a ListResponse, normalizing nil slices so the
// JSON is always an array.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items}
}
