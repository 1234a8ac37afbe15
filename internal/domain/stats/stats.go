// Package stats computes descriptive statistics over a session's shots.
package stats

import (
	"math"
	"time"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/pkg/metrics"
)

// Keys of the map returned by Compute.
const (
	KeyTotalShots       = "totalShots"
	KeyAvgCarryDistance = "avgCarryDistance"
	KeyAvgTotalDistance = "avgTotalDistance"
	KeyAvgBallSpeed     = "avgBallSpeed"
	KeyClubCounts       = "clubCounts"
	KeyClubStats        = "clubStats"

	// per club entries
	KeyAvgCarry = "avgCarry"
	KeyAvgTotal = "avgTotal"
)

// Round1 rounds half up to one decimal place.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// mean averages only the values that are present.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v != nil {
		m.sum += *v
		m.n++
	}
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return Round1(m.sum / float64(m.n))
}

type accumulator struct {
	shots int
	carry mean
	total mean
	ball  mean
}

func (a *accumulator) add(s *model.Shot) {
	a.shots++
	a.carry.add(s.CarryDistance)
	a.total.add(s.TotalDistance)
	a.ball.add(s.BallSpeed)
}

// Compute returns totals, session averages, per-club counts and per-club
// averages. An empty input yields an empty map, meaning "no statistics".
func Compute(shots []model.Shot) map[string]any {
	out := map[string]any{}
	if len(shots) == 0 {
		return out
	}
	start := time.Now()

	var all accumulator
	clubs := map[string]*accumulator{}
	for i := range shots {
		s := &shots[i]
		all.add(s)
		if s.Club == "" {
			continue
		}
		acc, ok := clubs[s.Club]
		if !ok {
			acc = &accumulator{}
			clubs[s.Club] = acc
		}
		acc.add(s)
	}

	counts := make(map[string]int, len(clubs))
	perClub := make(map[string]map[string]float64, len(clubs))
	for club, acc := range clubs {
		counts[club] = acc.shots
		perClub[club] = map[string]float64{
			KeyAvgCarry:     acc.carry.value(),
			KeyAvgTotal:     acc.total.value(),
			KeyAvgBallSpeed: acc.ball.value(),
		}
	}

	out[KeyTotalShots] = all.shots
	out[KeyAvgCarryDistance] = all.carry.value()
	out[KeyAvgTotalDistance] = all.total.value()
	out[KeyAvgBallSpeed] = all.ball.value()
	out[KeyClubCounts] = counts
	out[KeyClubStats] = perClub

	metrics.RecordStatsComputation(float64(time.Since(start).Microseconds()) / 1000)
	return out
}

// Summarize returns the session level averages used by listings.
func Summarize(shots []model.Shot) model.Summary {
	var all accumulator
	for i := range shots {
		all.add(&shots[i])
	}
	return model.Summary{
		ShotCount:        all.shots,
		AvgCarryDistance: all.carry.value(),
		AvgTotalDistance: all.total.value(),
		AvgBallSpeed:     all.ball.value(),
	}
}
