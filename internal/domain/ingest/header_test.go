package ingest_test

import (
	"testing"

	"github.com/okian/fairway/internal/domain/ingest"
	"github.com/okian/fairway/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolver(t *testing.T) {
	Convey("Given the R10 synonym table", t, func() {
		Convey("When a header line is resolved", func() {
			fields := ingest.R10Headers.Resolve([]string{"\ufeffShot", " Club ", "Carry Distance (yards)", "Path (deg)", "Weather"})

			Convey("Then labels map case-insensitively and unknown ones are ignored", func() {
				So(fields, ShouldResemble, []model.Field{
					model.FieldShotNumber,
					model.FieldClub,
					model.FieldCarryDistance,
					model.FieldSwingPath,
					model.FieldUnknown,
				})
			})
		})
	})

	Convey("Given the Awesome Golf synonym table", t, func() {
		Convey("Then bracketed units resolve", func() {
			So(ingest.AwesomeGolfHeaders.Lookup("Face Target [deg]"), ShouldEqual, model.FieldFaceTarget)
			So(ingest.AwesomeGolfHeaders.Lookup("Vertical Launch [deg]"), ShouldEqual, model.FieldLaunchAngle)
			So(ingest.AwesomeGolfHeaders.Lookup("Spin Reading"), ShouldEqual, model.FieldUnknown)
		})
	})

	Convey("Given labels from one vendor", t, func() {
		Convey("Then the other vendor's table does not know them", func() {
			So(ingest.R10Headers.Lookup("carry distance [yd]"), ShouldEqual, model.FieldUnknown)
			So(ingest.NormalizeHeader("  Ball SPEED  "), ShouldEqual, "ball speed")
		})
	})
}
