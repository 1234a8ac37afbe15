package loadtest

import "errors"

// Sentinel errors for load test runs.
var (
	ErrUnhealthy = errors.New("service is not healthy")
	ErrDuplicate = errors.New("upload rejected as duplicate")
	ErrRequest   = errors.New("request failed")
	ErrMismatch  = errors.New("statistics mismatch")
)
