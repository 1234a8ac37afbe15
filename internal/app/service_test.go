package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	service "github.com/okian/fairway/internal/app"
	"github.com/okian/fairway/internal/domain/ingest"
	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

const r10CSV = `Shot,Club,Ball Speed (mph),Carry Distance (yards),Total Distance (yards)
1,Driver,150,230,250
2,Driver,140,210,230
3,7 Iron,120,160,170
`

func r10Upload(body string) ingest.Upload {
	return ingest.NewBytesUpload("range.csv", "text/csv", []byte(body))
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports itself stopped", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["dedupeEnabled"], ShouldEqual, false)
			So(stats["defaultSource"], ShouldEqual, model.SourceGarminR10)
		})

		Convey("Then operations are refused until started", func() {
			_, err := svc.List(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Upload(context.Background(), service.UploadRequest{File: r10Upload(r10CSV), Title: "x"})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		loc := time.FixedZone("test", 3600)
		svc := service.New(
			service.WithWorkerCount(3),
			service.WithQueueSize(16),
			service.WithDedupe(true),
			service.WithDedupeSize(5),
			service.WithLocation(loc),
			service.WithDefaultSource(model.SourceAwesomeGolf),
			service.WithLogger(logger.Discard()),
		)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 3)
			So(stats["queueSize"], ShouldEqual, 16)
			So(stats["dedupeEnabled"], ShouldEqual, true)
			So(stats["timezone"], ShouldEqual, "test")
			So(stats["defaultSource"], ShouldEqual, model.SourceAwesomeGolf)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then starting twice is harmless", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			svc.Stop()
		})

		Convey("Then it exposes runtime stats", func() {
			stats := svc.GetStats()
			So(stats["storedSessions"], ShouldEqual, 0)
			So(stats["queueLength"], ShouldEqual, 0)
			So(stats["dedupeEntries"], ShouldEqual, int64(0))
			svc.Stop()
		})

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it is marked stopped and a second stop is harmless", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				svc.Stop()
			})
		})
	})
}

func TestService_ReuploadByDefault(t *testing.T) {
	Convey("Given a started service with default options", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		svc := service.New(service.WithWorkerCount(1), service.WithLogger(logger.Discard()))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() {
			svc.Stop()
			cancel()
		})

		Convey("When the same export is uploaded twice", func() {
			first, err := svc.Upload(ctx, service.UploadRequest{File: r10Upload(r10CSV), Title: "Morning"})
			So(err, ShouldBeNil)
			second, err := svc.Upload(ctx, service.UploadRequest{File: r10Upload(r10CSV), Title: "Evening"})

			Convey("Then both are stored as separate sessions", func() {
				So(err, ShouldBeNil)
				So(second.Session.ID, ShouldNotEqual, first.Session.ID)
				list, err := svc.List(ctx)
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 2)
			})
		})
	})
}
