// Package worker fans per-swimmer computations out over a bounded set of
// goroutines. Callers index results by job number, so output order never
// depends on scheduling.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/swimtimes/pkg/logger"
	"github.com/okian/swimtimes/pkg/metrics"
)

// Job computes item i. It must only write state owned by index i.
type Job func(ctx context.Context, i int) error

// Pool runs jobs with at most Size goroutines.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool. size < 1 means one worker per CPU; size 1 runs
// jobs sequentially in index order.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	p := &Pool{size: size, name: "worker-pool"}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	metrics.UpdateWorkerCount(size)
	return p
}

// Size returns the concurrency limit.
func (p *Pool) Size() int { return p.size }

// Run calls job for every i in [0, n). The first error cancels the context
// passed to the remaining jobs and is returned.
func (p *Pool) Run(ctx context.Context, n int, job Job) error {
	if n <= 0 {
		return nil
	}
	start := time.Now()

	if p.size == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := job(ctx, i); err != nil {
				return p.fail(ctx, i, err)
			}
		}
		p.done(ctx, n, start)
		return nil
	}

	var failed atomic.Int64
	failed.Store(-1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := job(gctx, i); err != nil {
				failed.CompareAndSwap(-1, int64(i))
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if i := failed.Load(); i >= 0 {
			return p.fail(ctx, int(i), err)
		}
		return err
	}
	p.done(ctx, n, start)
	return nil
}

func (p *Pool) fail(ctx context.Context, i int, err error) error {
	metrics.RecordError("worker", "job_failed")
	p.logger.Error(ctx, "job failed", logger.Int("job", i), logger.Error(err))
	return fmt.Errorf("job %d: %w", i, err)
}

func (p *Pool) done(ctx context.Context, n int, start time.Time) {
	p.logger.Debug(ctx, "jobs finished",
		logger.Int("jobs", n),
		logger.Int("workers", p.size),
		logger.Duration("elapsed", time.Since(start)))
}
