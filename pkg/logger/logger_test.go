package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns it", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it fails", func() {
				So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
			})
		})
	})
}

func TestJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat(FormatJSON)), ShouldBeNil)

		Convey("When a named logger writes an entry", func() {
			Named("ingest").With(String("source_type", "GARMIN_R10")).Info(context.Background(), "session persisted", Int("shots", 3))

			Convey("Then the entry carries every field and the caller", func() {
				var entry map[string]any
				So(json.Unmarshal(buf.Bytes(), &entry), ShouldBeNil)
				So(entry["msg"], ShouldEqual, "session persisted")
				So(entry["logger"], ShouldEqual, "ingest")
				So(entry["source_type"], ShouldEqual, "GARMIN_R10")
				So(entry["shots"], ShouldEqual, float64(3))
				So(entry["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When debug is disabled", func() {
			Get().Debug(context.Background(), "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)

		Convey("Then known levels are accepted", func() {
			for _, l := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
				So(SetLevelString(l), ShouldBeNil)
			}
		})

		Convey("Then unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})

		Convey("Then debug entries appear once enabled", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(context.Background(), "row skipped", String("reason", "malformed_row"))
			So(strings.Contains(buf.String(), "row skipped"), ShouldBeTrue)
		})
	})
}

func TestDiscard(t *testing.T) {
	Convey("Given the discard logger", t, func() {
		l := Discard()

		Convey("Then it accepts entries without output", func() {
			So(func() { l.Error(context.Background(), "boom", Error(errors.New("x"))) }, ShouldNotPanic)
			So(l.Named("x"), ShouldNotBeNil)
		})
	})
}
