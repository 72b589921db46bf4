// Package service runs the club's batch computations over a loaded swim
// list: consideration times, qualifiers and club-championship race times.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/swimtimes/internal/adapters/worker"
	"github.com/okian/swimtimes/internal/domain/consideration"
	"github.com/okian/swimtimes/internal/domain/entries"
	"github.com/okian/swimtimes/internal/domain/qualification"
	"github.com/okian/swimtimes/internal/domain/standards"
	"github.com/okian/swimtimes/pkg/logger"
	"github.com/okian/swimtimes/pkg/metrics"
)

// Report names used in logs and metric labels.
const (
	ReportConsideration = "consideration"
	ReportQualifiers    = "qualifiers"
	ReportChampsTimes   = "champs_times"
)

const defaultMaximumAge = 21

// Service computes the batch reports. It holds no per-run state, so one
// Service can run any number of reports.
type Service struct {
	// Configuration
	workerCount      int
	maximumAge       int
	entryNames       []string
	hasEntryList     bool
	excludedSwimmers map[string]struct{}

	// Consideration and race-time dates
	champsDate  time.Time
	cutoff      time.Time
	champsStart time.Time
	champsMeet  string

	// Qualifying
	ageOn  time.Time
	policy qualification.Policy

	// Tables
	noTime    consideration.Lookup
	standards qualification.Lookup

	newRunID func() string

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of goroutines computing swimmers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithMaximumAge excludes swimmers older than age from every report.
func WithMaximumAge(age int) Option {
	return func(s *Service) {
		if age > 0 {
			s.maximumAge = age
		}
	}
}

// WithEntryList restricts consideration and race-time reports to entered
// swimmers. Without it every swimmer is treated as entered.
func WithEntryList(names []string) Option {
	return func(s *Service) {
		s.entryNames = names
		s.hasEntryList = true
	}
}

// WithExcludedSwimmers leaves the named swimmers out of the qualifiers report.
func WithExcludedSwimmers(names []string) Option {
	return func(s *Service) {
		for _, n := range names {
			s.excludedSwimmers[n] = struct{}{}
		}
	}
}

// WithClubChamps sets the championship meet, its first and last days, and
// the consideration cutoff.
func WithClubChamps(meet string, start, end, cutoff time.Time) Option {
	return func(s *Service) {
		s.champsMeet = meet
		s.champsStart = start
		s.champsDate = end
		s.cutoff = cutoff
	}
}

// WithQualifying sets the qualifying age date and the swim policy.
func WithQualifying(ageOn time.Time, policy qualification.Policy) Option {
	return func(s *Service) {
		s.ageOn = ageOn
		s.policy = policy
	}
}

// WithNoTimeTable overrides the embedded NT fallback table.
func WithNoTimeTable(t consideration.Lookup) Option {
	return func(s *Service) {
		if t != nil {
			s.noTime = t
		}
	}
}

// WithStandards overrides the embedded qualifying standards.
func WithStandards(t qualification.Lookup) Option {
	return func(s *Service) {
		if t != nil {
			s.standards = t
		}
	}
}

// WithRunIDFunc overrides run id generation.
func WithRunIDFunc(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service. The embedded tables are loaded unless replaced
// by options; a malformed embedded table is returned as an error.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:      runtime.NumCPU(),
		maximumAge:       defaultMaximumAge,
		excludedSwimmers: make(map[string]struct{}),
		newRunID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.noTime == nil {
		nt, err := standards.NoTime()
		if err != nil {
			return nil, fmt.Errorf("load NT table: %w", err)
		}
		s.noTime = nt
	}
	if s.standards == nil {
		qt, err := standards.Qualifying()
		if err != nil {
			return nil, fmt.Errorf("load qualifying standards: %w", err)
		}
		s.standards = qt
	}
	return s, nil
}

func (s *Service) entrySet() entries.Set {
	if !s.hasEntryList {
		return entries.Set{}
	}
	return entries.New(s.entryNames)
}

// begin starts a run: a fresh run id on the logger and a timer that records
// the batch duration when finish is called.
func (s *Service) begin(ctx context.Context, report string) (logger.Logger, *worker.Pool, func(err error)) {
	lg := s.logger.With(logger.String("run_id", s.newRunID()), logger.String("report", report))
	pool := worker.NewPool(s.workerCount, worker.WithLogger(lg))
	start := time.Now()
	lg.Info(ctx, "batch started", logger.Int("workers", pool.Size()))

	return lg, pool, func(err error) {
		elapsed := time.Since(start)
		metrics.RecordBatchDuration(report, elapsed.Seconds(), err == nil, time.Now().Unix())
		if err != nil {
			lg.Error(ctx, "batch failed", logger.Error(err), logger.Duration("elapsed", elapsed))
			return
		}
		lg.Info(ctx, "batch finished", logger.Duration("elapsed", elapsed))
	}
}
