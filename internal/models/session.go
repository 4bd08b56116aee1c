package models

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies one user's continuous interaction with the workflow.
// It is the accounting scope for rate limiting and the key under which
// Phase-1 results are kept for Phase 2.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSession mints a session with an opaque token.
func NewSession() Session {
	return Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}
