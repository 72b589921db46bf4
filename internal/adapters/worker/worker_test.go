package worker

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/swimtimes/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPoolRun(t *testing.T) {
	Convey("Given worker pools of different sizes", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		for _, size := range []int{1, 4, 0} {
			p := NewPool(size, WithName("test-pool"))

			Convey("When squaring indexes with size "+strconv.Itoa(size), func() {
				out := make([]int, 50)
				err := p.Run(ctx, len(out), func(_ context.Context, i int) error {
					out[i] = i * i
					return nil
				})

				Convey("Then every slot is filled by index", func() {
					So(err, ShouldBeNil)
					for i, v := range out {
						So(v, ShouldEqual, i*i)
					}
					So(p.Size(), ShouldBeGreaterThan, 0)
				})
			})
		}

		Convey("When the concurrency limit is 3", func() {
			p := NewPool(3)
			var running, peak atomic.Int64
			err := p.Run(ctx, 20, func(_ context.Context, _ int) error {
				now := running.Add(1)
				for {
					old := peak.Load()
					if now <= old || peak.CompareAndSwap(old, now) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				running.Add(-1)
				return nil
			})

			Convey("Then no more than 3 jobs overlap", func() {
				So(err, ShouldBeNil)
				So(peak.Load(), ShouldBeLessThanOrEqualTo, 3)
			})
		})

		Convey("When a sequential job fails", func() {
			boom := errors.New("boom")
			var ran []int
			err := NewPool(1).Run(ctx, 5, func(_ context.Context, i int) error {
				ran = append(ran, i)
				if i == 2 {
					return boom
				}
				return nil
			})

			Convey("Then later jobs do not run and the error names the job", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(err.Error(), ShouldStartWith, "job 2:")
				So(ran, ShouldResemble, []int{0, 1, 2})
			})
		})

		Convey("When a concurrent job fails", func() {
			boom := errors.New("boom")
			err := NewPool(4).Run(ctx, 10, func(_ context.Context, i int) error {
				if i == 7 {
					return boom
				}
				return nil
			})

			Convey("Then the error is returned", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			var calls atomic.Int64
			err := NewPool(1).Run(cctx, 3, func(context.Context, int) error {
				calls.Add(1)
				return nil
			})

			Convey("Then nothing runs", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("When there are no jobs", func() {
			So(NewPool(2).Run(ctx, 0, nil), ShouldBeNil)
		})
	})
}
