// Package loader decodes the club's swim list and entry list exports into
// domain records. The swim list is a sequence of blocks separated by blank
// lines; each block is a swimmer row followed by versioned swim rows.
package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/swimtimes/internal/domain/dedupe"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/pkg/logger"
	"github.com/okian/swimtimes/pkg/metrics"
)

const maxLineBytes = 1 << 20

// Stats summarises one swim-list read.
type Stats struct {
	Swimmers   int
	Swims      int
	Duplicates int
	Skipped    int
}

// Loader reads swim and entry lists.
type Loader struct {
	deduper       dedupe.Deduper
	logger        logger.Logger
	skipMalformed bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithDeduper sets the deduper used to drop repeated swim ids.
func WithDeduper(d dedupe.Deduper) Option {
	return func(l *Loader) {
		if d != nil {
			l.deduper = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithSkipMalformed makes malformed swim rows a logged skip instead of a
// failure. Unsupported versions and malformed swimmer rows still fail.
func WithSkipMalformed(skip bool) Option {
	return func(l *Loader) { l.skipMalformed = skip }
}

// New creates a Loader. A fresh in-memory deduper is used unless one is given.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.deduper == nil {
		l.deduper = dedupe.NewInMemoryDeduper()
	}
	if l.logger == nil {
		l.logger = logger.Named("loader")
	}
	return l
}

// ReadSwimList decodes every block of r. Blocks keep input order and so do
// the swims inside them.
func (l *Loader) ReadSwimList(ctx context.Context, r io.Reader) (model.Roster, Stats, error) {
	var (
		roster  model.Roster
		stats   Stats
		current *model.SwimmerSwims
		lineNo  int
	)
	flush := func() {
		if current != nil {
			roster = append(roster, *current)
			current = nil
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		if current == nil {
			sw, err := DecodeSwimmer(line)
			if err != nil {
				metrics.RecordError("loader", "malformed_swimmer")
				return nil, stats, &LineError{Line: lineNo, Err: err}
			}
			current = &model.SwimmerSwims{Swimmer: sw}
			stats.Swimmers++
			continue
		}

		s, keep, err := l.decodeSwim(ctx, line)
		if err != nil {
			if errors.Is(err, ErrMalformedRecord) && l.skipMalformed {
				stats.Skipped++
				metrics.RecordError("loader", "malformed_record")
				l.logger.Warn(ctx, "skipping malformed swim",
					logger.Int("line", lineNo),
					logger.String("swimmer", current.Swimmer.FullName()),
					logger.Error(err))
				continue
			}
			metrics.RecordError("loader", errorKind(err))
			return nil, stats, &LineError{Line: lineNo, Err: err}
		}
		if !keep {
			stats.Duplicates++
			metrics.RecordSwimDuplicate()
			l.logger.Debug(ctx, "dropping duplicate swim",
				logger.Int("line", lineNo),
				logger.Int("swim_id", s.SwimID))
			continue
		}
		current.Swims = append(current.Swims, s)
		stats.Swims++
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("read swim list: %w", err)
	}
	flush()

	metrics.RecordSwimsLoaded(stats.Swims)
	l.logger.Info(ctx, "swim list loaded",
		logger.Int("swimmers", stats.Swimmers),
		logger.Int("swims", stats.Swims),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("skipped", stats.Skipped))
	return roster, stats, nil
}

// decodeSwim returns keep=false for a swim id already loaded. Swims without
// an id are always kept.
func (l *Loader) decodeSwim(ctx context.Context, line string) (model.Swim, bool, error) {
	rec, err := DecodeSwim(line)
	if err != nil {
		return model.Swim{}, false, err
	}

	var key string
	if v1, ok := rec.(SwimRecordV1); ok && v1.SwimID > 0 {
		key = fmt.Sprintf("%d/%d", v1.SwimmerID, v1.SwimID)
		if l.deduper.SeenAndRecord(ctx, key) {
			return model.Swim{SwimID: v1.SwimID}, false, nil
		}
	}

	s, err := rec.Swim()
	if err != nil {
		if key != "" {
			l.deduper.Unrecord(ctx, key)
		}
		return model.Swim{}, false, err
	}
	return s, true, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, ErrMalformedRecord):
		return "malformed_record"
	default:
		return "unknown"
	}
}

// ReadEntryList reads "Last, First" lines and returns "First Last" names in
// input order. Blank lines are ignored. A line without a comma is read as
// "Last First ..." and any further names are dropped.
func ReadEntryList(r io.Reader) ([]string, error) {
	var (
		names  []string
		lineNo int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		last, first, ok := strings.Cut(line, ",")
		if !ok {
			fields := strings.Fields(line)
			if ok = len(fields) >= 2; ok {
				last, first = fields[0], fields[1]
			}
		}
		last, first = strings.TrimSpace(last), strings.TrimSpace(first)
		if !ok || last == "" || first == "" {
			return nil, &LineError{Line: lineNo, Err: fmt.Errorf("%w: entry %q", ErrMalformedRecord, line)}
		}
		names = append(names, first+" "+last)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read entry list: %w", err)
	}
	return names, nil
}
