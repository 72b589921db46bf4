package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/swimtimes/internal/domain/champs"
	"github.com/okian/swimtimes/internal/domain/consideration"
	"github.com/okian/swimtimes/internal/domain/entries"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/qualification"
	"github.com/okian/swimtimes/pkg/logger"
	"github.com/okian/swimtimes/pkg/metrics"
)

// ConsiderationReport holds consideration times for entered swimmers in
// roster order.
type ConsiderationReport struct {
	Cutoff    time.Time
	Swimmers  []model.SwimmerConsideration
	Unmatched []string
	Excluded  []model.Exclusion
}

// QualifierReport holds swimmers with at least one qualifying record, in
// roster order.
type QualifierReport struct {
	Swimmers []model.SwimmerQualifiers
	Excluded []model.Exclusion
}

// ChampsReport holds each entered swimmer's championship swims in roster
// order.
type ChampsReport struct {
	Swimmers  []model.SwimmerChamps
	Unmatched []string
	Excluded  []model.Exclusion
}

// selected is a swimmer chosen for computation.
type selected struct {
	block     model.SwimmerSwims
	entryName string
	age       int
}

// selectEntered picks entered swimmers not older than the maximum age on
// ageOn. Entry-list names are only claimed by swimmers that are selected.
func (s *Service) selectEntered(ctx context.Context, lg logger.Logger, report string, roster model.Roster, ageOn time.Time) ([]selected, []string, []model.Exclusion) {
	set := s.entrySet()
	if !set.Open() {
		lg.Debug(ctx, "matching entry list", logger.Int("entries", set.Len()))
	}
	var (
		picked   []selected
		excluded []model.Exclusion
	)
	for _, b := range roster {
		age := b.Swimmer.AgeOn(ageOn)
		name, ok := entries.Match(set, b.Swimmer)
		if !ok {
			excluded = append(excluded, s.exclude(ctx, lg, report, b.Swimmer, b.Swimmer.AlternateName(), age, model.ReasonNotEntered))
			continue
		}
		if age > s.maximumAge {
			excluded = append(excluded, s.exclude(ctx, lg, report, b.Swimmer, name, age, model.ReasonTooOld))
			continue
		}
		set = entries.Claim(set, name)
		picked = append(picked, selected{block: b, entryName: name, age: age})
	}

	unmatched := entries.Unmatched(set)
	metrics.UpdateEntriesUnmatched(report, len(unmatched))
	for _, n := range unmatched {
		lg.Info(ctx, "entry has no swim list record", logger.String("name", n))
	}
	return picked, unmatched, excluded
}

func (s *Service) exclude(ctx context.Context, lg logger.Logger, report string, sw model.Swimmer, name string, age int, reason model.ExclusionReason) model.Exclusion {
	metrics.RecordSwimmerExcluded(report, string(reason))
	lg.Info(ctx, "excluding swimmer",
		logger.String("name", name),
		logger.Int("age", age),
		logger.String("reason", string(reason)))
	return model.Exclusion{Swimmer: sw, Name: name, Age: age, Reason: reason}
}

// Considerations computes consideration times for every entered swimmer.
func (s *Service) Considerations(ctx context.Context, roster model.Roster) (ConsiderationReport, error) {
	if s.champsDate.IsZero() || s.cutoff.IsZero() {
		return ConsiderationReport{}, fmt.Errorf("%w: consideration needs club champs and cutoff dates", ErrNotConfigured)
	}
	lg, pool, finish := s.begin(ctx, ReportConsideration)
	lg.Info(ctx, "computing consideration times",
		logger.Date("club_champs", s.champsDate),
		logger.Date("cutoff", s.cutoff))
	engine := consideration.NewEngine(s.noTime)

	picked, unmatched, excluded := s.selectEntered(ctx, lg, ReportConsideration, roster, s.champsDate)
	out := make([]model.SwimmerConsideration, len(picked))
	err := pool.Run(ctx, len(picked), func(ctx context.Context, i int) error {
		p := picked[i]
		times := engine.ComputeAll(p.block.Swimmer, p.block.Swims, s.cutoff, p.age)
		for _, ct := range times {
			metrics.RecordConsiderationTime(string(consideration.SourceOf(ct)))
		}
		metrics.RecordSwimmerProcessed(ReportConsideration)
		lg.Debug(ctx, "swimmer computed", logger.String("name", p.entryName), logger.Int("age", p.age))
		out[i] = model.SwimmerConsideration{Swimmer: p.block.Swimmer, EntryName: p.entryName, Age: p.age, Times: times}
		return nil
	})
	finish(err)
	if err != nil {
		return ConsiderationReport{}, err
	}
	return ConsiderationReport{Cutoff: s.cutoff, Swimmers: out, Unmatched: unmatched, Excluded: excluded}, nil
}

// Qualifiers finds qualifying records for every swimmer not excluded by name
// or age. The entry list is not consulted.
func (s *Service) Qualifiers(ctx context.Context, roster model.Roster) (QualifierReport, error) {
	if s.ageOn.IsZero() || s.policy.WindowStart.IsZero() {
		return QualifierReport{}, fmt.Errorf("%w: qualifiers need age-on and window start dates", ErrNotConfigured)
	}
	lg, pool, finish := s.begin(ctx, ReportQualifiers)
	lg.Info(ctx, "finding qualifiers",
		logger.Date("age_on", s.ageOn),
		logger.Date("window_start", s.policy.WindowStart))
	engine := qualification.NewEngine(s.standards)

	var (
		picked   []selected
		excluded []model.Exclusion
	)
	for _, b := range roster {
		age := b.Swimmer.AgeOn(s.ageOn)
		name := b.Swimmer.FullName()
		if _, ok := s.excludedSwimmers[name]; ok {
			excluded = append(excluded, s.exclude(ctx, lg, ReportQualifiers, b.Swimmer, name, age, model.ReasonExcluded))
			continue
		}
		if age > s.maximumAge {
			excluded = append(excluded, s.exclude(ctx, lg, ReportQualifiers, b.Swimmer, name, age, model.ReasonTooOld))
			continue
		}
		picked = append(picked, selected{block: b, entryName: name, age: age})
	}

	computed := make([]model.SwimmerQualifiers, len(picked))
	err := pool.Run(ctx, len(picked), func(ctx context.Context, i int) error {
		p := picked[i]
		records := engine.ComputeAll(p.block.Swimmer, p.block.Swims, s.policy, p.age)
		for _, r := range records {
			metrics.RecordQualifyingRecord(r.Qualifies)
		}
		metrics.RecordSwimmerProcessed(ReportQualifiers)
		computed[i] = model.SwimmerQualifiers{Swimmer: p.block.Swimmer, Age: p.age, Records: records}
		return nil
	})
	finish(err)
	if err != nil {
		return QualifierReport{}, err
	}

	report := QualifierReport{Excluded: excluded}
	for _, sq := range computed {
		if len(sq.Records) > 0 {
			report.Swimmers = append(report.Swimmers, sq)
		}
	}
	lg.Info(ctx, "qualifiers found", logger.Int("swimmers", len(report.Swimmers)))
	return report, nil
}

// ChampsTimes extracts each entered swimmer's club-championship swims.
func (s *Service) ChampsTimes(ctx context.Context, roster model.Roster) (ChampsReport, error) {
	if s.champsDate.IsZero() || s.champsStart.IsZero() || s.champsMeet == "" {
		return ChampsReport{}, fmt.Errorf("%w: champs times need the meet name and its dates", ErrNotConfigured)
	}
	lg, pool, finish := s.begin(ctx, ReportChampsTimes)
	lg.Info(ctx, "extracting champs times",
		logger.String("meet", s.champsMeet),
		logger.Date("start", s.champsStart),
		logger.Date("end", s.champsDate))

	picked, unmatched, excluded := s.selectEntered(ctx, lg, ReportChampsTimes, roster, s.champsDate)
	out := make([]model.SwimmerChamps, len(picked))
	err := pool.Run(ctx, len(picked), func(_ context.Context, i int) error {
		p := picked[i]
		swims := champs.Extract(p.block.Swims, s.champsMeet, s.champsStart, s.champsDate)
		metrics.RecordSwimmerProcessed(ReportChampsTimes)
		out[i] = model.SwimmerChamps{Swimmer: p.block.Swimmer, EntryName: p.entryName, Age: p.age, Swims: swims}
		return nil
	})
	finish(err)
	if err != nil {
		return ChampsReport{}, err
	}
	return ChampsReport{Swimmers: out, Unmatched: unmatched, Excluded: excluded}, nil
}
