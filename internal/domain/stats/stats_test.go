package stats_test

import (
	"testing"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func shot(club string, set map[model.Field]float64) model.Shot {
	s := model.Shot{Club: club}
	for f, v := range set {
		s.Set(f, v)
	}
	return s
}

func TestCompute(t *testing.T) {
	Convey("Given no shots", t, func() {
		Convey("Then there are no statistics at all", func() {
			So(stats.Compute(nil), ShouldBeEmpty)
			So(stats.Compute([]model.Shot{}), ShouldBeEmpty)
		})
	})

	Convey("Given shots with a missing carry", t, func() {
		shots := []model.Shot{
			shot("", map[model.Field]float64{model.FieldCarryDistance: 200}),
			shot("", map[model.Field]float64{model.FieldCarryDistance: 210}),
			shot("", nil),
		}
		out := stats.Compute(shots)

		Convey("Then the missing value is excluded from sum and count", func() {
			So(out[stats.KeyTotalShots], ShouldEqual, 3)
			So(out[stats.KeyAvgCarryDistance], ShouldEqual, 205.0)
			So(out[stats.KeyAvgBallSpeed], ShouldEqual, 0.0)
			So(out[stats.KeyClubCounts], ShouldBeEmpty)
		})
	})

	Convey("Given shots across clubs", t, func() {
		shots := []model.Shot{
			shot("Driver", map[model.Field]float64{model.FieldBallSpeed: 150, model.FieldCarryDistance: 231.24}),
			shot("Driver", map[model.Field]float64{model.FieldBallSpeed: 152}),
			shot("7 Iron", map[model.Field]float64{model.FieldBallSpeed: 120, model.FieldTotalDistance: 160.05}),
		}
		out := stats.Compute(shots)

		Convey("Then clubs are counted and averaged separately", func() {
			So(out[stats.KeyClubCounts], ShouldResemble, map[string]int{"Driver": 2, "7 Iron": 1})

			clubStats := out[stats.KeyClubStats].(map[string]map[string]float64)
			So(clubStats["Driver"][stats.KeyAvgBallSpeed], ShouldEqual, 151.0)
			So(clubStats["Driver"][stats.KeyAvgCarry], ShouldEqual, 231.2)
			So(clubStats["Driver"][stats.KeyAvgTotal], ShouldEqual, 0.0)
			So(clubStats["7 Iron"][stats.KeyAvgBallSpeed], ShouldEqual, 120.0)
			So(clubStats["7 Iron"][stats.KeyAvgTotal], ShouldEqual, 160.1)
		})

		Convey("Then session averages cover every shot", func() {
			So(out[stats.KeyAvgBallSpeed], ShouldEqual, 140.7)
		})
	})
}

func TestRound1(t *testing.T) {
	Convey("Given values to round", t, func() {
		Convey("Then halves round up", func() {
			So(stats.Round1(1.25), ShouldEqual, 1.3)
			So(stats.Round1(1.24), ShouldEqual, 1.2)
			So(stats.Round1(-1.25), ShouldEqual, -1.2)
			So(stats.Round1(0), ShouldEqual, 0.0)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a few shots", t, func() {
		shots := []model.Shot{
			shot("Driver", map[model.Field]float64{model.FieldCarryDistance: 220, model.FieldTotalDistance: 240, model.FieldBallSpeed: 148}),
			shot("Driver", map[model.Field]float64{model.FieldCarryDistance: 230}),
		}

		Convey("Then the summary matches the session averages of Compute", func() {
			sum := stats.Summarize(shots)
			out := stats.Compute(shots)
			So(sum.ShotCount, ShouldEqual, 2)
			So(sum.AvgCarryDistance, ShouldEqual, out[stats.KeyAvgCarryDistance])
			So(sum.AvgTotalDistance, ShouldEqual, 240.0)
			So(sum.AvgBallSpeed, ShouldEqual, 148.0)
		})

		Convey("Then an empty input summarizes to zeros", func() {
			So(stats.Summarize(nil), ShouldResemble, model.Summary{})
		})
	})
}
