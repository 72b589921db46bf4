package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okian/swimtimes/internal/adapters/loader"
	"github.com/okian/swimtimes/internal/adapters/report"
	service "github.com/okian/swimtimes/internal/app"
	"github.com/okian/swimtimes/internal/config"
	"github.com/okian/swimtimes/internal/domain/dedupe"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/qualification"
	"github.com/okian/swimtimes/pkg/logger"
	"github.com/okian/swimtimes/pkg/metrics"
)

// Output file names, as the club's spreadsheets expect them.
const (
	considerationTimesFile        = "ConsiderationTimes.txt"
	considerationTimesVerboseFile = "ConsiderationTimesVerbose.txt"
	missingEntriesFile            = "MissingEntries.txt"
	qualifiersFile                = "Qualifiers.txt"
	qualifiersWorkbookFile        = "Qualifiers.xlsx"
	raceTimesFile                 = "RaceTimes.txt"
	raceTimesMissingEntriesFile   = "MissingEntriesForRaceTimes.txt"
)

type rootFlags struct {
	configPath string
	logLevel   string
	outputDir  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "swimtimes",
		Short:         "Club champs consideration times and county qualifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (default $SWIMTIMES_CONFIG)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.outputDir, "output-dir", "", "override output_dir")

	root.AddCommand(
		&cobra.Command{
			Use:   "consideration",
			Short: "Write consideration times for entered swimmers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), flags, runConsideration)
			},
		},
		&cobra.Command{
			Use:   "qualifiers",
			Short: "Write swimmers with times under the qualifying standards",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), flags, runQualifiers)
			},
		},
		&cobra.Command{
			Use:   "champs-times",
			Short: "Write the times swum at the club championships",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), flags, runChampsTimes)
			},
		},
	)
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

type runner func(ctx context.Context, cfg *config.Config, roster model.Roster) error

// run does the setup shared by every subcommand: logging, config, swim list
// and, when configured, the metrics textfile.
func run(ctx context.Context, flags *rootFlags, fn runner) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	roster, err := readRoster(ctx, cfg)
	if err == nil {
		err = fn(ctx, cfg, roster)
	}
	if cfg.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Get().Warn(ctx, "metrics textfile not written", logger.Error(werr))
		}
	}
	return err
}

func readRoster(ctx context.Context, cfg *config.Config) (model.Roster, error) {
	f, err := os.Open(cfg.SwimList)
	if err != nil {
		return nil, fmt.Errorf("open swim list: %w", err)
	}
	defer f.Close()

	l := loader.New(
		loader.WithDeduper(dedupe.NewInMemoryDeduper()),
		loader.WithSkipMalformed(cfg.SkipMalformed),
	)
	roster, _, err := l.ReadSwimList(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.SwimList, err)
	}
	return roster, nil
}

// entryListOption returns the service option for the configured entry list,
// or nil when every swimmer counts as entered.
func entryListOption(cfg *config.Config) (service.Option, error) {
	if cfg.EntryList == "" {
		return nil, nil
	}
	f, err := os.Open(cfg.EntryList)
	if err != nil {
		return nil, fmt.Errorf("open entry list: %w", err)
	}
	defer f.Close()

	names, err := loader.ReadEntryList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.EntryList, err)
	}
	return service.WithEntryList(names), nil
}

func newService(cfg *config.Config, extra ...service.Option) (*service.Service, error) {
	opts := []service.Option{
		service.WithLogger(logger.Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithMaximumAge(cfg.MaximumAge),
		service.WithClubChamps(cfg.ChampsMeet, cfg.ChampsStartDate.Time, cfg.ClubChampsDate.Time, cfg.ConsiderationDate.Time),
	}
	for _, o := range extra {
		if o != nil {
			opts = append(opts, o)
		}
	}
	return service.New(opts...)
}

func runConsideration(ctx context.Context, cfg *config.Config, roster model.Roster) error {
	if err := cfg.Require("club_champs_date", "consideration_date"); err != nil {
		return err
	}
	entryOpt, err := entryListOption(cfg)
	if err != nil {
		return err
	}
	svc, err := newService(cfg, entryOpt)
	if err != nil {
		return err
	}
	res, err := svc.Considerations(ctx, roster)
	if err != nil {
		return err
	}
	return writeAll(cfg.OutputDir, map[string]func(io.Writer) error{
		considerationTimesFile: func(w io.Writer) error { return report.WriteConsiderationTimes(w, res.Swimmers) },
		considerationTimesVerboseFile: func(w io.Writer) error {
			return report.WriteConsiderationTimesVerbose(w, res.Swimmers)
		},
		missingEntriesFile: func(w io.Writer) error { return report.WriteMissingEntries(w, res.Unmatched) },
	})
}

func runQualifiers(ctx context.Context, cfg *config.Config, roster model.Roster) error {
	if err := cfg.Require("age_on_date", "qualifying_window_start"); err != nil {
		return err
	}
	svc, err := newService(cfg,
		service.WithExcludedSwimmers(cfg.ExcludedSwimmers),
		service.WithQualifying(cfg.AgeOnDate.Time, qualification.NewPolicy(cfg.QualifyingWindowStart.Time, cfg.ExcludedMeets)),
	)
	if err != nil {
		return err
	}
	res, err := svc.Qualifiers(ctx, roster)
	if err != nil {
		return err
	}
	files := map[string]func(io.Writer) error{
		qualifiersFile: func(w io.Writer) error { return report.WriteQualifiers(w, res.Swimmers) },
	}
	if cfg.QualifiersWorkbook {
		files[qualifiersWorkbookFile] = func(w io.Writer) error { return report.WriteQualifiersWorkbook(w, res.Swimmers) }
	}
	return writeAll(cfg.OutputDir, files)
}

func runChampsTimes(ctx context.Context, cfg *config.Config, roster model.Roster) error {
	if err := cfg.Require("club_champs_date", "champs_start_date"); err != nil {
		return err
	}
	if cfg.ChampsMeet == "" {
		return fmt.Errorf("%w: champs_meet is required", config.ErrInvalidConfig)
	}
	entryOpt, err := entryListOption(cfg)
	if err != nil {
		return err
	}
	svc, err := newService(cfg, entryOpt)
	if err != nil {
		return err
	}
	res, err := svc.ChampsTimes(ctx, roster)
	if err != nil {
		return err
	}
	return writeAll(cfg.OutputDir, map[string]func(io.Writer) error{
		raceTimesFile:               func(w io.Writer) error { return report.WriteRaceTimes(w, res.Swimmers) },
		raceTimesMissingEntriesFile: func(w io.Writer) error { return report.WriteMissingEntries(w, res.Unmatched) },
	})
}

func writeAll(dir string, files map[string]func(io.Writer) error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for name, write := range files {
		if err := writeFile(filepath.Join(dir, name), write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Get().Info(context.Background(), "report written", logger.String("path", path))
	return nil
}
