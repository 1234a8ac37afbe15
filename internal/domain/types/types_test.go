package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSessionSummary(t *testing.T) {
	Convey("Given a session and its summary", t, func() {
		now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		sess := model.Session{ID: "s1", Title: "Range", Location: "Home", UploadDate: now, SessionDate: now, Source: model.SourceAwesomeGolf}
		sum := model.Summary{ShotCount: 12, AvgCarryDistance: 180.5, AvgTotalDistance: 195, AvgBallSpeed: 120.2}

		Convey("When they are joined", func() {
			row := types.NewSessionSummary(sess, sum)

			Convey("Then the row carries both", func() {
				So(row.ID, ShouldEqual, "s1")
				So(row.SourceType, ShouldEqual, model.SourceAwesomeGolf)
				So(row.ShotCount, ShouldEqual, 12)
				So(row.AvgCarryDistance, ShouldEqual, 180.5)
			})

			Convey("Then it serializes with camelCase keys", func() {
				raw, err := json.Marshal(row)
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"sourceType":"AWESOME_GOLF"`)
				So(string(raw), ShouldContainSubstring, `"avgBallSpeed":120.2`)
			})
		})
	})
}
