package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/rigcheck/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeduper(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		ctx := context.Background()
		d := dedupe.New()

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When an id is recorded", func() {
			first := d.SeenAndRecord(ctx, "req-1")
			second := d.SeenAndRecord(ctx, "req-1")

			Convey("Then only the repeat is reported as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And unrecording allows it again", func() {
				d.Unrecord(ctx, "req-1")
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			})
		})

		Convey("When many goroutines race on the same ids", func() {
			var fresh atomic.Int64
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i%10)) {
						fresh.Add(1)
					}
				}(i)
			}
			wg.Wait()

			Convey("Then each id is recorded exactly once", func() {
				So(fresh.Load(), ShouldEqual, 10)
			})
		})
	})

	Convey("Given a deduper with a short window", t, func() {
		ctx := context.Background()
		d := dedupe.New(dedupe.WithTTL(20 * time.Millisecond))
		So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)

		Convey("When the window passes", func() {
			time.Sleep(40 * time.Millisecond)

			Convey("Then the id is forgotten", func() {
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			})
		})
	})
}
