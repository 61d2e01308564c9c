package model

import "time"

// Session is the authenticated identity attached to the current request.
// It is rehydrated from the session store on every request and never cached
// across requests, so authorization decisions always see the latest role.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the session carries the ADMIN role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
