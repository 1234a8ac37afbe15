package ingest

import "errors"

// Input rejections. Callers see these unchanged; retrying requires a different input.
var (
	ErrEmptyFile         = errors.New("file is empty")
	ErrInvalidFormat     = errors.New("invalid file format, please upload a CSV file")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrTitleTooLong      = errors.New("title is too long")
	ErrLocationTooLong   = errors.New("location is too long")
	ErrNoValidShots      = errors.New("no valid shots found in the CSV file")
	ErrUnsupportedSource = errors.New("unsupported source")
)

// Processing failures.
var (
	ErrRead  = errors.New("failed to read upload")
	ErrStore = errors.New("failed to persist session")
)

// Cell and row level failures. These never leave the ingestor; they end up in Outcome.
var (
	ErrNotNumeric   = errors.New("not a number")
	ErrBadTimestamp = errors.New("bad timestamp")
	ErrMalformedRow = errors.New("malformed row")
	ErrRowPanic     = errors.New("row parser panicked")
)
