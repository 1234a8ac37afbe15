// Package export renders a stored session as a spreadsheet or CSV file.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/fairway/internal/domain/ingest"
	"github.com/okian/fairway/internal/domain/model"
)

// Format names an export encoding.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for formats other than xlsx and csv.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts xlsx or csv in any case; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatXLSX, nil
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType is the MIME type of the encoded file.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename derives a download name from the session title.
func (f Format) Filename(s *model.Session) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, s.Title)
	if base == "" {
		base = "session-" + s.ID
	}
	return base + "." + string(f)
}

// header returns the column labels shared by every format.
func header() []string {
	fields := model.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Label()
	}
	return out
}

// cells renders one shot in header order.
func cells(s *model.Shot) []string {
	fields := model.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		switch f {
		case model.FieldShotNumber:
			if s.ShotNumber != nil {
				out[i] = strconv.Itoa(*s.ShotNumber)
			}
		case model.FieldClub:
			out[i] = s.Club
		case model.FieldClubDescription:
			out[i] = s.ClubDescription
		case model.FieldShotTime:
			if s.ShotTime != nil {
				out[i] = s.ShotTime.Format(ingest.TimestampLayout)
			}
		case model.FieldShotClassification:
			out[i] = s.ShotClassification
		default:
			if v := s.Metric(f); v != nil {
				out[i] = strconv.FormatFloat(*v, 'f', -1, 64)
			}
		}
	}
	return out
}
