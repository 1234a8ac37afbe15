package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrDuplicateUpload = errors.New("file already uploaded")
	ErrNotStarted      = errors.New("service not started")
)
