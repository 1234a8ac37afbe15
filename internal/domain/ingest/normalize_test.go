package ingest_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/fairway/internal/domain/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseNumber(t *testing.T) {
	Convey("Given raw numeric tokens", t, func() {
		Convey("Then unit suffixes and separators are stripped", func() {
			v, err := ingest.ParseNumber("1,234.5 mph")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1234.5)

			v, err = ingest.ParseNumber(" -3.2° ")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, -3.2)

			v, err = ingest.ParseNumber("2450 rpm")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 2450.0)
		})

		Convey("Then tokens without a number fail", func() {
			for _, token := range []string{"--", "", "n/a", "1-2", "."} {
				_, err := ingest.ParseNumber(token)
				So(errors.Is(err, ingest.ErrNotNumeric), ShouldBeTrue)
			}
		})
	})
}

func TestParseTimestamp(t *testing.T) {
	Convey("Given shot time tokens", t, func() {
		Convey("Then the export layout parses in UTC by default", func() {
			ts, err := ingest.ParseTimestamp("2024-05-01 14:03:09", nil)
			So(err, ShouldBeNil)
			So(ts.Equal(time.Date(2024, 5, 1, 14, 3, 9, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("Then a configured location is honoured", func() {
			loc := time.FixedZone("plus2", 2*60*60)
			ts, err := ingest.ParseTimestamp("2024-05-01 14:03:09", loc)
			So(err, ShouldBeNil)
			So(ts.UTC().Hour(), ShouldEqual, 12)
		})

		Convey("Then other layouts fail", func() {
			_, err := ingest.ParseTimestamp("01/05/2024 14:03", nil)
			So(errors.Is(err, ingest.ErrBadTimestamp), ShouldBeTrue)
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("Given free text", t, func() {
		Convey("Then markup characters are escaped after trimming", func() {
			So(ingest.Sanitize("<Driver>"), ShouldEqual, "&lt;Driver&gt;")
			So(ingest.Sanitize(`  Tom's "range" 1/2 `), ShouldEqual, "Tom&#x27;s &quot;range&quot; 1&#x2F;2")
			So(ingest.Sanitize("   "), ShouldEqual, "")
		})

		Convey("Then it is a single pass", func() {
			So(ingest.Sanitize("<b>"), ShouldEqual, "&lt;b&gt;")
			So(ingest.Sanitize("a & b"), ShouldEqual, "a & b")
		})
	})
}
