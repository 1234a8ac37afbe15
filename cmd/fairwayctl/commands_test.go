package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fairway/internal/adapters/http/api"
	service "github.com/okian/fairway/internal/app"
	"github.com/okian/fairway/pkg/logger"
)

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	Convey("Given an output directory", t, func() {
		dir := t.TempDir()

		Convey("When generating three files", func() {
			out, err := run("generate", "-o", dir, "-n", "3", "--shots", "10", "--seed", "5")
			So(err, ShouldBeNil)

			Convey("Then each file is written and listed", func() {
				So(strings.Count(out, "\n"), ShouldEqual, 3)
				So(out, ShouldContainSubstring, "AWESOME_GOLF")
				for _, name := range []string{"session-0000.csv", "session-0001.csv", "session-0002.csv"} {
					_, err := os.Stat(filepath.Join(dir, name))
					So(err, ShouldBeNil)
				}
			})
		})

		Convey("When the source is unknown", func() {
			_, err := run("generate", "-o", dir, "--source", "trackman")

			Convey("Then the command fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestUploadCommand(t *testing.T) {
	Convey("Given a running server and a generated file", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		svc := service.New(service.WithWorkerCount(1), service.WithLogger(logger.Discard()))
		So(svc.Start(ctx), ShouldBeNil)
		router := api.NewRouter()
		api.NewServer(svc).Register(ctx, router)
		srv := httptest.NewServer(router)
		Reset(func() {
			srv.Close()
			svc.Stop()
			cancel()
		})

		dir := t.TempDir()
		_, err := run("generate", "-o", dir, "--source", "GARMIN_R10", "--shots", "12", "--seed", "1")
		So(err, ShouldBeNil)
		file := filepath.Join(dir, "session-0000.csv")

		Convey("When it is uploaded", func() {
			out, err := run("upload", file, "--url", srv.URL, "--title", "CLI")

			Convey("Then the session is reported", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "12 shots")

				list, err := svc.List(ctx)
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 1)
				So(list[0].Title, ShouldEqual, "CLI")
			})

			Convey("Then uploading it again fails", func() {
				_, err := run("upload", file, "--url", srv.URL)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When running a small load test", func() {
			out, err := run("loadtest", "--url", srv.URL, "-n", "4", "--shots", "8", "-w", "2", "--seed", "3")

			Convey("Then every session verifies", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "verified 4")
			})
		})
	})
}
