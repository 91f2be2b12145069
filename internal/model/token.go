package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager issues and validates access tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (AccessToken, error)
	ParseAccessToken(token string) (uuid.UUID, error)
}

// AccessToken is a signed bearer token with its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}
