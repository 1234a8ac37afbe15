// Package ingest turns launch monitor CSV exports into persisted sessions.
//
// Two layouts are supported. Garmin R10 files carry one header line and are
// mapped by column name. Awesome Golf files carry a label line followed by a
// units line and are mapped by column position. Row level problems never
// abort a file; they are counted in the returned Outcome.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/pkg/logger"
	"github.com/okian/fairway/pkg/metrics"
)

// Limits on session metadata, counted in runes after sanitization.
const (
	MaxTitleLength    = 255
	MaxLocationLength = 255

	defaultMaxSkipDetails = 100
)

var allowedContentTypes = map[string]bool{ //nolint:gochecknoglobals // static allow-list
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"application/csv":          true,
	"text/plain":               true,
}

// Outcome describes a completed ingestion.
type Outcome struct {
	Session *model.Session `json:"session"`
	// Rows counts non-blank data rows, parsed or not.
	Rows             int    `json:"rows"`
	SkippedRows      int    `json:"skippedRows"`
	Skipped          []Skip `json:"skipped,omitempty"`
	FieldErrors      int    `json:"fieldErrors"`
	HeaderMismatches int    `json:"headerMismatches"`
}

// Ingestor validates uploads, parses them and hands the result to a Saver.
// It holds no per-file state and may be shared between goroutines.
type Ingestor struct {
	saver          Saver
	log            logger.Logger
	now            func() time.Time
	loc            *time.Location
	maxSkipDetails int
}

// New creates an Ingestor persisting through saver.
func New(saver Saver, opts ...Option) *Ingestor {
	i := &Ingestor{
		saver:          saver,
		log:            logger.Discard(),
		now:            time.Now,
		loc:            time.UTC,
		maxSkipDetails: defaultMaxSkipDetails,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IngestR10 ingests a header-driven Garmin R10 export.
func (i *Ingestor) IngestR10(ctx context.Context, up Upload, title, location string) (*Outcome, error) {
	return i.Ingest(ctx, up, title, location, model.SourceGarminR10)
}

// IngestAwesomeGolf ingests a positional Awesome Golf export.
func (i *Ingestor) IngestAwesomeGolf(ctx context.Context, up Upload, title, location string) (*Outcome, error) {
	return i.Ingest(ctx, up, title, location, model.SourceAwesomeGolf)
}

// Ingest validates up, parses it according to source and persists the session.
// It returns either a session with at least one shot or a single error.
func (i *Ingestor) Ingest(ctx context.Context, up Upload, title, location string, source model.Source) (*Outcome, error) {
	start := time.Now()
	out, err := i.ingest(ctx, up, title, location, source)
	metrics.RecordIngestLatency(source.String(), float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordSessionIngested(source.String(), "rejected")
		i.log.Warn(ctx, "ingestion rejected",
			logger.String("source_type", source.String()),
			logger.Error(err))
		return nil, err
	}

	metrics.RecordSessionIngested(source.String(), "persisted")
	metrics.RecordShotsIngested(source.String(), len(out.Session.Shots))
	metrics.RecordFieldErrors(source.String(), out.FieldErrors)
	metrics.RecordHeaderMismatches(source.String(), out.HeaderMismatches)
	i.log.Info(ctx, "session persisted",
		logger.String("session_id", out.Session.ID),
		logger.String("source_type", source.String()),
		logger.Int("shots", len(out.Session.Shots)),
		logger.Int("skipped_rows", out.SkippedRows),
		logger.Int("field_errors", out.FieldErrors))
	return out, nil
}

func (i *Ingestor) ingest(ctx context.Context, up Upload, title, location string, source model.Source) (*Outcome, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, source)
	}
	if up == nil || up.Size() == 0 {
		return nil, ErrEmptyFile
	}
	if !isCSV(up.Filename(), up.ContentType()) {
		return nil, ErrInvalidFormat
	}

	title = Sanitize(title)
	location = Sanitize(location)
	switch {
	case title == "":
		return nil, ErrEmptyTitle
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return nil, ErrTitleTooLong
	case utf8.RuneCountInString(location) > MaxLocationLength:
		return nil, ErrLocationTooLong
	}

	rc, err := up.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer rc.Close()

	sess := &model.Session{
		Title:      title,
		Location:   location,
		UploadDate: i.now(),
		Source:     source,
	}
	out := &Outcome{Session: sess}

	if err := i.readRows(ctx, rc, out); err != nil {
		return nil, err
	}
	if len(sess.Shots) == 0 {
		return nil, ErrNoValidShots
	}
	sess.ShotCount = len(sess.Shots)

	saved, err := i.saver.Save(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	out.Session = saved
	return out, nil
}

// readRows reads the header lines for the session's source, then every data
// row, appending parsed shots to out.Session.
func (i *Ingestor) readRows(ctx context.Context, r io.Reader, out *Outcome) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := nextRecord(cr)
	if err != nil {
		return headerError(err)
	}

	var parser rowParser
	sess := out.Session
	positional := sess.Source == model.SourceAwesomeGolf
	if positional {
		// Line 1 holds the labels, line 2 the units. The units line is
		// dropped whatever it holds.
		if err := skipRecord(cr); err != nil {
			return headerError(err)
		}
		parser = newAwesomeGolfParser(header, i.loc)
		out.HeaderMismatches = headerMismatches(header)
	} else {
		parser = newR10Parser(header)
	}

	var earliest *time.Time
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return fmt.Errorf("%w: %w", ErrRead, err)
			}
			out.Rows++
			i.skip(ctx, out, Skip{Line: pe.StartLine, Reason: SkipUnreadableRow, Detail: pe.Err.Error()})
			continue
		}
		if blank(record) {
			continue
		}
		out.Rows++
		line, _ := cr.FieldPos(0)

		shot, fieldErrs, err := parseSafely(parser, record)
		if err != nil {
			reason := SkipMalformedRow
			if errors.Is(err, ErrRowPanic) {
				reason = SkipRowPanic
			}
			i.skip(ctx, out, Skip{Line: line, Reason: reason, Detail: err.Error()})
			continue
		}
		out.FieldErrors += fieldErrs

		if positional {
			shot.SetShotNumber(len(sess.Shots) + 1)
			if shot.ShotTime != nil && (earliest == nil || shot.ShotTime.Before(*earliest)) {
				earliest = shot.ShotTime
			}
		}
		sess.Shots = append(sess.Shots, shot)
	}

	if earliest != nil {
		sess.SessionDate = *earliest
	} else {
		sess.SessionDate = i.now()
	}
	return nil
}

func (i *Ingestor) skip(ctx context.Context, out *Outcome, s Skip) {
	out.SkippedRows++
	if len(out.Skipped) < i.maxSkipDetails {
		out.Skipped = append(out.Skipped, s)
	}
	metrics.RecordRowSkipped(out.Session.Source.String(), string(s.Reason))
	i.log.Debug(ctx, "skipping row",
		logger.Int("line", s.Line),
		logger.String("reason", string(s.Reason)),
		logger.String("detail", s.Detail))
}

func parseSafely(p rowParser, record []string) (shot model.Shot, fieldErrs int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRowPanic, r)
		}
	}()
	return p.parse(record)
}

// nextRecord returns the next non-blank record. Unreadable lines are skipped.
func nextRecord(cr *csv.Reader) ([]string, error) {
	for {
		record, err := cr.Read()
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				continue
			}
			return nil, err
		}
		if !blank(record) {
			return record, nil
		}
	}
}

// skipRecord discards exactly one record, blank or unreadable.
func skipRecord(cr *csv.Reader) error {
	_, err := cr.Read()
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return nil
	}
	return err
}

func headerError(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrNoValidShots
	}
	return fmt.Errorf("%w: %w", ErrRead, err)
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isCSV(filename, contentType string) bool {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return allowedContentTypes[mediaType]
}
