package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fairway/internal/adapters/repository"
	"github.com/okian/fairway/internal/domain/model"
)

func newSession(title string, uploaded time.Time, numbers ...int) *model.Session {
	s := &model.Session{
		Title:       title,
		Location:    "Range",
		UploadDate:  uploaded,
		SessionDate: uploaded.Add(-time.Hour),
		Source:      model.SourceGarminR10,
	}
	for _, n := range numbers {
		var shot model.Shot
		if n > 0 {
			shot.SetShotNumber(n)
		}
		shot.Club = "7 Iron"
		shot.Set(model.FieldCarryDistance, float64(100+n))
		s.Shots = append(s.Shots, shot)
	}
	return s
}

func sequentialIDs() repository.Option {
	var (
		mu sync.Mutex
		n  int
	)
	return repository.WithIDGenerator(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func TestMemStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx, sequentialIDs())
		Reset(func() { store.Close() })

		base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		Convey("When saving a session without shots", func() {
			_, err := store.Save(ctx, &model.Session{Title: "empty"})

			Convey("Then it is refused", func() {
				So(err, ShouldEqual, repository.ErrNoShots)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When saving a session", func() {
			in := newSession("Morning", base, 1, 2)
			saved, err := store.Save(ctx, in)
			So(err, ShouldBeNil)

			Convey("Then an identity and shot links are assigned", func() {
				So(saved.ID, ShouldEqual, "id-1")
				So(saved.ShotCount, ShouldEqual, 2)
				So(saved.Shots[0].SessionID, ShouldEqual, "id-1")
				So(in.ID, ShouldEqual, "")
			})

			Convey("Then Get returns an isolated copy", func() {
				got, err := store.Get(ctx, saved.ID)
				So(err, ShouldBeNil)
				got.Shots[0].Club = "Driver"

				again, err := store.Get(ctx, saved.ID)
				So(err, ShouldBeNil)
				So(again.Shots[0].Club, ShouldEqual, "7 Iron")
			})

			Convey("Then an unknown id is not found", func() {
				_, err := store.Get(ctx, "missing")
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When several sessions exist", func() {
			_, err := store.Save(ctx, newSession("Morning range", base, 1))
			So(err, ShouldBeNil)
			_, err = store.Save(ctx, newSession("Evening range", base.Add(time.Hour), 1))
			So(err, ShouldBeNil)
			_, err = store.Save(ctx, newSession("Lesson", base.Add(2*time.Hour), 1))
			So(err, ShouldBeNil)

			Convey("Then List is newest first without shots", func() {
				list, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 3)
				So(list[0].Title, ShouldEqual, "Lesson")
				So(list[2].Title, ShouldEqual, "Morning range")
				So(list[0].Shots, ShouldBeNil)
				So(list[0].ShotCount, ShouldEqual, 1)
			})

			Convey("Then Search matches titles ignoring case", func() {
				found, err := store.Search(ctx, "RANGE")
				So(err, ShouldBeNil)
				So(len(found), ShouldEqual, 2)
				So(found[0].Title, ShouldEqual, "Evening range")
			})
		})

		Convey("When shots are stored out of order", func() {
			saved, err := store.Save(ctx, newSession("Mixed", base, 3, 0, 1, 2))
			So(err, ShouldBeNil)

			Convey("Then Shots orders by number with unnumbered last", func() {
				shots, err := store.Shots(ctx, saved.ID)
				So(err, ShouldBeNil)
				So(len(shots), ShouldEqual, 4)
				So(shots[0].Number(), ShouldEqual, 1)
				So(shots[2].Number(), ShouldEqual, 3)
				So(shots[3].ShotNumber, ShouldBeNil)
			})
		})

		Convey("When patching and deleting", func() {
			saved, err := store.Save(ctx, newSession("Old", base, 1))
			So(err, ShouldBeNil)

			title := "New"
			updated, err := store.Update(ctx, saved.ID, model.SessionPatch{Title: &title})
			So(err, ShouldBeNil)

			Convey("Then only the patched field changes", func() {
				So(updated.Title, ShouldEqual, "New")
				So(updated.Location, ShouldEqual, "Range")
				So(updated.Shots, ShouldBeNil)
			})

			Convey("Then delete removes the session and its shots", func() {
				So(store.Delete(ctx, saved.ID), ShouldBeNil)
				So(store.Delete(ctx, saved.ID), ShouldEqual, repository.ErrNotFound)
				_, err := store.Shots(ctx, saved.ID)
				So(err, ShouldEqual, repository.ErrNotFound)
			})

			Convey("Then patching an unknown id fails", func() {
				_, err := store.Update(ctx, "missing", model.SessionPatch{Title: &title})
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When saving concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, _ = store.Save(ctx, newSession(fmt.Sprintf("s%d", i), base, 1))
				}(i)
			}
			wg.Wait()

			Convey("Then every session is stored", func() {
				So(store.Count(ctx), ShouldEqual, 20)
			})
		})
	})
}
