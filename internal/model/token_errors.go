package model

import "errors"

var (
	ErrTokenExpired      = errors.New("access token expired")
	ErrTokenMalformed    = errors.New("access token malformed")
	ErrTokenBadSignature = errors.New("access token signature invalid")
)
