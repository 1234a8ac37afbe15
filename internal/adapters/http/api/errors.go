package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/fairway/internal/adapters/export"
	"github.com/okian/fairway/internal/adapters/repository"
	service "github.com/okian/fairway/internal/app"
	"github.com/okian/fairway/internal/domain/ingest"
	"github.com/okian/fairway/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrMissingFile = errors.New("file is required")
	ErrRateLimited = errors.New("too many uploads, slow down")
)

// Kind classifies an error for the HTTP response.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindInvalidFile
	KindValidation
	KindNotFound
	KindConflict
	KindTooLarge
	KindNoShots
	KindRateLimited
	KindUnavailable
	KindProcessing
)

// Status returns the HTTP status for k.
func (k Kind) Status() int {
	switch k {
	case KindInvalidArgument, KindInvalidFile, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindNoShots:
		return http.StatusUnprocessableEntity
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the errorCode reported to clients.
func (k Kind) Code() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindInvalidFile:
		return "INVALID_FILE_FORMAT"
	case KindValidation:
		return "VALIDATION_FAILED"
	case KindNotFound:
		return "RESOURCE_NOT_FOUND"
	case KindConflict:
		return "DUPLICATE_UPLOAD"
	case KindTooLarge:
		return "FILE_SIZE_EXCEEDED"
	case KindNoShots:
		return "NO_VALID_SHOTS"
	case KindRateLimited:
		return "RATE_LIMITED"
	case KindUnavailable:
		return "SERVICE_UNAVAILABLE"
	case KindProcessing:
		return "FILE_PROCESSING_ERROR"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// Error carries the failing operation and its kind.
type Error struct {
	Op   string
	Kind Kind
	Err  error
	// Fields maps request fields to validation messages.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap classifies err by its sentinel and attaches op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return err
	}
	kind, field := classify(err)
	e := &Error{Op: op, Kind: kind, Err: err}
	if field != "" {
		e.Fields = map[string]string{field: err.Error()}
	}
	return e
}

// WrapKind attaches op and an explicit kind to err.
func WrapKind(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// NewKind builds an error of kind with message msg.
func NewKind(op string, kind Kind, msg string) error {
	return &Error{Op: op, Kind: kind, Err: errors.New(msg)}
}

// KindOf reports the kind of err, KindInternal when unclassified.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	kind, _ := classify(err)
	return kind
}

// classify maps domain sentinels to kinds, naming the request field when
// the error is about one.
func classify(err error) (Kind, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return KindTooLarge, ""
	case errors.Is(err, repository.ErrNotFound):
		return KindNotFound, ""
	case errors.Is(err, service.ErrDuplicateUpload):
		return KindConflict, ""
	case errors.Is(err, service.ErrNotStarted):
		return KindUnavailable, ""
	case errors.Is(err, ingest.ErrEmptyFile), errors.Is(err, ingest.ErrInvalidFormat), errors.Is(err, ErrMissingFile):
		return KindInvalidFile, "file"
	case errors.Is(err, ingest.ErrEmptyTitle), errors.Is(err, ingest.ErrTitleTooLong):
		return KindValidation, "title"
	case errors.Is(err, ingest.ErrLocationTooLong):
		return KindValidation, "location"
	case errors.Is(err, ingest.ErrUnsupportedSource), errors.Is(err, model.ErrUnknownSource):
		return KindValidation, "source"
	case errors.Is(err, export.ErrUnknownFormat):
		return KindValidation, "format"
	case errors.Is(err, ingest.ErrNoValidShots):
		return KindNoShots, ""
	case errors.Is(err, ingest.ErrRead):
		return KindProcessing, ""
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited, ""
	case errors.Is(err, ErrBadRequest):
		return KindInvalidArgument, ""
	default:
		return KindInternal, ""
	}
}
