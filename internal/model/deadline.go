package model

import "time"

// Deadline is a regulatory filing deadline set by the exchange. Only
// administrators may create, change, or delete deadlines; every
// authenticated user may read them.
type Deadline struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Deadline    time.Time `json:"deadline"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
