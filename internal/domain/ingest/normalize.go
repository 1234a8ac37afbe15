package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the per-shot time format written by positional exports.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseNumber strips every rune other than digits, '.' and '-' and parses the rest.
// "1,234.5 mph" yields 1234.5; "--" and "" fail with ErrNotNumeric.
func ParseNumber(token string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, token)
	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, token)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, token)
	}
	return v, nil
}

// ParseTimestamp parses token with TimestampLayout in loc (UTC when nil).
func ParseTimestamp(token string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(token), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, token)
	}
	return t, nil
}

var htmlEscaper = strings.NewReplacer( //nolint:gochecknoglobals // immutable replacer
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Sanitize trims s and escapes the characters that matter when it is echoed into HTML.
// It is a single pass: '&' is left alone, so sanitizing twice is not a no-op.
func Sanitize(s string) string {
	return htmlEscaper.Replace(strings.TrimSpace(s))
}
