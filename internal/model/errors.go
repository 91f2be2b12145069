package model

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrVersionConflict    = errors.New("version conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
