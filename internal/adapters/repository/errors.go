package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("session not found")
	ErrNoShots       = errors.New("session has no shots")
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrMigration     = errors.New("store migration failed")
)
