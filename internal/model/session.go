package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    uuid.UUID
}
