package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/fairway/internal/domain/model"
)

// SkipReason classifies why a data row produced no shot.
type SkipReason string

const (
	SkipMalformedRow  SkipReason = "malformed_row"
	SkipUnreadableRow SkipReason = "unreadable_row"
	SkipRowPanic      SkipReason = "row_panic"
)

// Skip records one data row that produced no shot.
type Skip struct {
	Line   int        `json:"line"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// rowParser turns one record into a shot. fieldErrors counts cells that
// failed to parse but did not reject the row.
type rowParser interface {
	parse(record []string) (shot model.Shot, fieldErrors int, err error)
}

// r10Parser locates fields by header name; the record must be exactly as wide as the header.
type r10Parser struct {
	fields []model.Field
}

func newR10Parser(header []string) *r10Parser {
	return &r10Parser{fields: R10Headers.Resolve(header)}
}

func (p *r10Parser) parse(record []string) (model.Shot, int, error) {
	var shot model.Shot
	if len(record) != len(p.fields) {
		return shot, 0, fmt.Errorf("%w: %d columns, header has %d", ErrMalformedRow, len(record), len(p.fields))
	}

	failed := 0
	for i, f := range p.fields {
		token := strings.TrimSpace(record[i])
		if f == model.FieldUnknown || token == "" {
			continue
		}
		switch {
		case f == model.FieldShotNumber:
			n, err := strconv.Atoi(token)
			if err != nil {
				failed++
				continue
			}
			shot.SetShotNumber(n)
		case f == model.FieldClub:
			shot.Club = Sanitize(token)
		case f.Numeric():
			v, err := ParseNumber(token)
			if err != nil {
				failed++
				continue
			}
			shot.Set(f, v)
		}
	}
	return shot, failed, nil
}

type columnKind uint8

const (
	columnNumeric columnKind = iota
	columnText
	columnIgnored
)

// column is one slot of the positional contract. The first target is the
// field the header label is expected to name.
type column struct {
	kind    columnKind
	targets []model.Field
}

func (c column) anchor() model.Field {
	if len(c.targets) == 0 {
		return model.FieldUnknown
	}
	return c.targets[0]
}

func numeric(targets ...model.Field) column { return column{kind: columnNumeric, targets: targets} }
func text(target model.Field) column        { return column{kind: columnText, targets: []model.Field{target}} }

// awesomeGolfColumns is indexed by column position. Column 0 is the shot time.
var awesomeGolfColumns = []column{ //nolint:gochecknoglobals // static column contract
	{kind: columnIgnored, targets: []model.Field{model.FieldShotTime}},
	text(model.FieldClub),
	text(model.FieldClubDescription),
	numeric(model.FieldAltitude),
	numeric(model.FieldClubHeadSpeed),
	numeric(model.FieldBallSpeed),
	numeric(model.FieldCarryDistance),
	numeric(model.FieldTotalDistance),
	numeric(model.FieldRollDistance),
	numeric(model.FieldSmash),
	numeric(model.FieldLaunchAngle),
	numeric(model.FieldPeakHeight),
	numeric(model.FieldDescentAngle),
	numeric(model.FieldHorizontalLaunch, model.FieldLaunchDirection),
	numeric(model.FieldCarryLateralDistance),
	numeric(model.FieldTotalLateralDistance),
	numeric(model.FieldCarryCurveDistance),
	numeric(model.FieldTotalCurveDistance),
	numeric(model.FieldAttackAngle),
	numeric(model.FieldDynamicLoft),
	numeric(model.FieldSpinLoft),
	numeric(model.FieldSpinRate),
	numeric(model.FieldSpinAxis),
	{kind: columnIgnored}, // spin reading, text only
	numeric(model.FieldLowPoint),
	numeric(model.FieldSwingPath),
	numeric(model.FieldFaceToPath),
	numeric(model.FieldFaceTarget, model.FieldFaceAngle),
	numeric(model.FieldSwingPlaneTilt),
	numeric(model.FieldSwingPlaneRotation),
	text(model.FieldShotClassification),
}

// awesomeGolfParser reads fields strictly by position.
type awesomeGolfParser struct {
	width int
	loc   *time.Location
}

func newAwesomeGolfParser(header []string, loc *time.Location) *awesomeGolfParser {
	return &awesomeGolfParser{width: len(header), loc: loc}
}

// headerMismatches counts labels that resolve to a field other than the one
// their position carries.
func headerMismatches(header []string) int {
	n := 0
	for i, label := range header {
		if i >= len(awesomeGolfColumns) {
			break
		}
		got := AwesomeGolfHeaders.Lookup(label)
		if got != model.FieldUnknown && got != awesomeGolfColumns[i].anchor() {
			n++
		}
	}
	return n
}

func (p *awesomeGolfParser) parse(record []string) (model.Shot, int, error) {
	var shot model.Shot
	if len(record) < p.width {
		return shot, 0, fmt.Errorf("%w: %d columns, header has %d", ErrMalformedRow, len(record), p.width)
	}

	failed := 0
	if token := strings.TrimSpace(record[0]); token != "" {
		if ts, err := ParseTimestamp(token, p.loc); err == nil {
			shot.ShotTime = &ts
		} else {
			failed++
		}
	}

	// A numeric failure ends the row; columns after it stay unset.
columns:
	for i := 1; i < len(awesomeGolfColumns) && i < len(record); i++ {
		col := awesomeGolfColumns[i]
		token := strings.TrimSpace(record[i])
		if token == "" || col.kind == columnIgnored {
			continue
		}
		switch col.kind {
		case columnText:
			setText(&shot, col.anchor(), Sanitize(token))
		case columnNumeric:
			v, err := ParseNumber(token)
			if err != nil {
				failed++
				break columns
			}
			for _, f := range col.targets {
				shot.Set(f, v)
			}
		}
	}
	return shot, failed, nil
}

func setText(shot *model.Shot, f model.Field, v string) {
	switch f {
	case model.FieldClub:
		shot.Club = v
	case model.FieldClubDescription:
		shot.ClubDescription = v
	case model.FieldShotClassification:
		shot.ShotClassification = v
	}
}
