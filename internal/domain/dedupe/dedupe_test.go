package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/okian/fairway/internal/domain/dedupe"
	"github.com/okian/fairway/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		Convey("When a key is recorded twice", func() {
			first := d.SeenAndRecord(ctx, "abc")
			second := d.SeenAndRecord(ctx, "abc")

			Convey("Then only the second call reports it as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, int64(1))
			})
		})

		Convey("When a key is unrecorded", func() {
			d.SeenAndRecord(ctx, "abc")
			d.Unrecord(ctx, "abc")
			d.Unrecord(ctx, "missing")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, int64(0))
				So(d.SeenAndRecord(ctx, "abc"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a deduper bounded to three keys", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, k := range []string{"a", "b", "c", "d"} {
			d.SeenAndRecord(ctx, k)
		}

		Convey("Then the oldest key is evicted", func() {
			So(d.Size(), ShouldEqual, int64(3))
			So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		Convey("When many goroutines record distinct keys", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					d.SeenAndRecord(ctx, fmt.Sprintf("k-%d", i))
				}(i)
			}
			wg.Wait()

			Convey("Then every key is kept", func() {
				So(d.Size(), ShouldEqual, int64(50))
			})
		})
	})
}

func TestDigest(t *testing.T) {
	Convey("Given upload contents", t, func() {
		Convey("Then identical bytes and source give identical keys", func() {
			a, err := dedupe.Digest(model.SourceGarminR10, strings.NewReader("Shot,Club\n1,Driver\n"))
			So(err, ShouldBeNil)
			b, _ := dedupe.Digest(model.SourceGarminR10, strings.NewReader("Shot,Club\n1,Driver\n"))
			So(a, ShouldEqual, b)
			So(len(a), ShouldEqual, 64)
		})

		Convey("Then the source is part of the key", func() {
			a, _ := dedupe.Digest(model.SourceGarminR10, strings.NewReader("x"))
			b, _ := dedupe.Digest(model.SourceAwesomeGolf, strings.NewReader("x"))
			So(a, ShouldNotEqual, b)
		})
	})
}
