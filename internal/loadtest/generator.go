package loadtest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/fairway/internal/domain/ingest"
	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/domain/stats"
)

// Share of numeric cells written as "--".
const missingRate = 0.03

type club struct {
	name      string
	carry     float64
	ballSpeed float64
	launch    float64
	spin      float64
}

//nolint:gochecknoglobals // static bag
var clubs = []club{
	{"Driver", 230, 150, 12, 2600},
	{"3 Wood", 210, 142, 13, 3600},
	{"5 Iron", 180, 128, 15, 5200},
	{"7 Iron", 160, 118, 18, 6800},
	{"9 Iron", 135, 105, 23, 8200},
	{"Pitching Wedge", 115, 95, 27, 9000},
}

//nolint:gochecknoglobals // column contract of the positional format
var awesomeGolfLabels = []string{
	"Date", "Club Type", "Club Description", "Altitude", "Club Speed", "Ball Speed",
	"Carry Distance", "Total Distance", "Roll Distance", "Smash", "Vertical Launch",
	"Peak Height", "Descent Angle", "Horizontal Launch", "Carry Lateral Distance",
	"Total Lateral Distance", "Carry Curve Distance", "Total Curve Distance",
	"Attack Angle", "Dynamic Loft", "Spin Loft", "Spin Rate", "Spin Axis", "Spin Reading",
	"Low Point", "Club Path", "Face Path", "Face Target", "Swing Plane Tilt",
	"Swing Plane Rotation", "Shot Classification",
}

//nolint:gochecknoglobals // units line of the positional format
var awesomeGolfUnits = []string{
	"", "", "", "[ft]", "[mph]", "[mph]", "[yd]", "[yd]", "[yd]", "", "[deg]",
	"[ft]", "[deg]", "[deg]", "[yd]", "[yd]", "[yd]", "[yd]", "[deg]", "[deg]",
	"[deg]", "[rpm]", "[deg]", "", "[in]", "[deg]", "[deg]", "[deg]", "[deg]", "[deg]", "",
}

//nolint:gochecknoglobals // static header
var r10Header = []string{
	"Shot", "Club", "Ball Speed (mph)", "Club Speed (mph)", "Launch Angle (deg)",
	"Spin Rate (rpm)", "Carry Distance (yards)", "Total Distance (yards)", "Apex (ft)",
}

// Sample is one generated session file.
type Sample struct {
	Filename string
	Title    string
	Location string
	Source   model.Source
	Data     []byte
}

// Upload wraps the sample as an ingest upload.
func (s Sample) Upload() ingest.Upload {
	return ingest.NewBytesUpload(s.Filename, "text/csv", s.Data)
}

// Generator produces reproducible session files for a seed.
type Generator struct {
	rng   *rand.Rand
	start time.Time
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		start: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Sample generates file i with n shots. An empty source alternates by index.
// Generators are not safe for concurrent use.
func (g *Generator) Sample(i int, source model.Source, n int) (Sample, error) {
	if source == "" {
		source = model.Sources()[i%len(model.Sources())]
	}
	s := Sample{
		Filename: fmt.Sprintf("session-%04d.csv", i),
		Title:    fmt.Sprintf("Load test %d", i),
		Location: "Range " + strconv.Itoa(i%5+1),
		Source:   source,
	}

	var (
		buf bytes.Buffer
		err error
	)
	w := csv.NewWriter(&buf)
	switch source {
	case model.SourceGarminR10:
		err = g.writeR10(w, n)
	case model.SourceAwesomeGolf:
		err = g.writeAwesomeGolf(w, n, g.start.Add(time.Duration(i)*time.Hour))
	default:
		return Sample{}, fmt.Errorf("%w: %q", ingest.ErrUnsupportedSource, source)
	}
	if err != nil {
		return Sample{}, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Sample{}, err
	}
	s.Data = buf.Bytes()
	return s, nil
}

// shot is one simulated strike.
type shot struct {
	club      club
	ballSpeed float64
	clubSpeed float64
	launch    float64
	spin      float64
	carry     float64
	total     float64
	apex      float64
	lateral   float64
}

func (g *Generator) strike() shot {
	c := clubs[g.rng.IntN(len(clubs))]
	carry := c.carry + g.rng.NormFloat64()*8
	ballSpeed := c.ballSpeed + g.rng.NormFloat64()*3
	return shot{
		club:      c,
		ballSpeed: ballSpeed,
		clubSpeed: ballSpeed / (1.35 + g.rng.Float64()*0.15),
		launch:    c.launch + g.rng.NormFloat64()*2,
		spin:      c.spin + g.rng.NormFloat64()*400,
		carry:     carry,
		total:     carry + 5 + g.rng.Float64()*15,
		apex:      60 + g.rng.Float64()*50,
		lateral:   g.rng.NormFloat64() * 6,
	}
}

// num formats v with one decimal, occasionally as a missing reading.
func (g *Generator) num(v float64) string {
	if g.rng.Float64() < missingRate {
		return "--"
	}
	return strconv.FormatFloat(stats.Round1(v), 'f', 1, 64)
}

func (g *Generator) writeR10(w *csv.Writer, n int) error {
	if err := w.Write(r10Header); err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		s := g.strike()
		err := w.Write([]string{
			strconv.Itoa(i),
			s.club.name,
			g.num(s.ballSpeed),
			g.num(s.clubSpeed),
			g.num(s.launch),
			g.num(s.spin),
			g.num(s.carry),
			g.num(s.total),
			g.num(s.apex),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) writeAwesomeGolf(w *csv.Writer, n int, start time.Time) error {
	if err := w.Write(awesomeGolfLabels); err != nil {
		return err
	}
	if err := w.Write(awesomeGolfUnits); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		s := g.strike()
		row := make([]string, len(awesomeGolfLabels))
		row[0] = start.Add(time.Duration(i) * 40 * time.Second).Format(ingest.TimestampLayout)
		row[1] = s.club.name
		row[2] = "Stock"
		row[3] = "0.0"
		row[4] = g.num(s.clubSpeed)
		row[5] = g.num(s.ballSpeed)
		row[6] = g.num(s.carry)
		row[7] = g.num(s.total)
		row[8] = g.num(s.total - s.carry)
		row[9] = g.num(s.ballSpeed / s.clubSpeed)
		row[10] = g.num(s.launch)
		row[11] = g.num(s.apex)
		row[14] = g.num(s.lateral)
		row[21] = g.num(s.spin)
		row[23] = "Measured"
		row[30] = classify(s.lateral)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func classify(lateral float64) string {
	switch {
	case lateral < -8:
		return "Pull Hook"
	case lateral < -3:
		return "Draw"
	case lateral > 8:
		return "Push Slice"
	case lateral > 3:
		return "Fade"
	default:
		return "Straight"
	}
}
