// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSource is returned when a device tag does not match a supported launch monitor.
var ErrUnknownSource = errors.New("unknown source")

// Source identifies the launch monitor that produced a session file.
type Source string

const (
	// SourceGarminR10 is the header-driven export format.
	SourceGarminR10 Source = "GARMIN_R10"
	// SourceAwesomeGolf is the positional export format.
	SourceAwesomeGolf Source = "AWESOME_GOLF"
)

// Sources lists every supported source in a stable order.
func Sources() []Source {
	return []Source{SourceGarminR10, SourceAwesomeGolf}
}

// ParseSource matches s case-insensitively against the supported sources.
func ParseSource(s string) (Source, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SourceGarminR10):
		return SourceGarminR10, nil
	case string(SourceAwesomeGolf):
		return SourceAwesomeGolf, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Valid reports whether s is one of the supported sources.
func (s Source) Valid() bool {
	return s == SourceGarminR10 || s == SourceAwesomeGolf
}

func (s Source) String() string { return string(s) }
