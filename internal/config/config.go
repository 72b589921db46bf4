// Package config defines the batch configuration and how it is loaded.
//
// Conventions:
// - New returns a Config holding defaults; Load layers file and env on top.
// - Dates are written dd/mm/yyyy and decoded into Date.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/okian/swimtimes/internal/domain/model"
)

// Date is a calendar date decoded from dd/mm/yyyy. The zero value means unset.
type Date struct {
	time.Time
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := model.ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, nil
	}
	return []byte(model.FormatDate(d.Time)), nil
}

// String renders the date as dd/mm/yyyy, or "" when unset.
func (d Date) String() string {
	b, _ := d.MarshalText()
	return string(b)
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// SwimList and EntryList are the input exports. An empty EntryList means
	// every swimmer is treated as entered.
	SwimList  string `koanf:"swim_list"`
	EntryList string `koanf:"entry_list"`

	// OutputDir receives the report files.
	OutputDir string `koanf:"output_dir"`

	// ClubChampsDate is the last day of the club championships. Ages for
	// consideration times and race times are taken on this date.
	ClubChampsDate Date `koanf:"club_champs_date"`

	// ConsiderationDate is the PB cutoff. Defaults to one year before
	// ClubChampsDate.
	ConsiderationDate Date `koanf:"consideration_date"`

	// ChampsStartDate is the first day of the championships. Defaults to a
	// week before ClubChampsDate.
	ChampsStartDate Date `koanf:"champs_start_date"`

	// ChampsMeet is the meet name championship swims are recorded under.
	ChampsMeet string `koanf:"champs_meet"`

	// AgeOnDate is the date qualifying ages are taken on.
	AgeOnDate Date `koanf:"age_on_date"`

	// QualifyingWindowStart is the earliest swim date counted for
	// qualification.
	QualifyingWindowStart Date `koanf:"qualifying_window_start"`

	// MaximumAge excludes older swimmers from every report.
	MaximumAge int `koanf:"maximum_age"`

	// ExcludedMeets are meets whose times do not qualify.
	ExcludedMeets []string `koanf:"excluded_meets"`

	// ExcludedSwimmers are full names left out of the qualifiers report.
	ExcludedSwimmers []string `koanf:"excluded_swimmers"`

	// WorkerCount bounds per-swimmer fan-out. 1 runs sequentially.
	WorkerCount int `koanf:"worker_count"`

	// SkipMalformed turns malformed swim rows into logged skips.
	SkipMalformed bool `koanf:"skip_malformed"`

	// QualifiersWorkbook also writes Qualifiers.xlsx.
	QualifiersWorkbook bool `koanf:"qualifiers_workbook"`

	// MetricsTextfile, when set, receives the run's metrics in the
	// Prometheus text format.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

const (
	defaultMaximumAge = 21
	champsWeek        = 7 * 24 * time.Hour
)

// New creates a Config holding defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		SwimList:    "SwimList.txt",
		EntryList:   "EntryList.txt",
		OutputDir:   ".",
		MaximumAge:  defaultMaximumAge,
		WorkerCount: runtime.NumCPU(),
	}
}

// Validate fills derived dates and rejects inconsistent settings.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.MaximumAge <= 0 {
		return fmt.Errorf("%w: maximum_age must be positive, got %d", ErrInvalidConfig, c.MaximumAge)
	}
	if c.WorkerCount < 1 {
		c.WorkerCount = runtime.NumCPU()
	}

	if !c.ClubChampsDate.IsZero() {
		if c.ConsiderationDate.IsZero() {
			c.ConsiderationDate = Date{c.ClubChampsDate.AddDate(-1, 0, 0)}
		}
		if c.ChampsStartDate.IsZero() {
			c.ChampsStartDate = Date{c.ClubChampsDate.Add(-champsWeek)}
		}
		if c.ChampsStartDate.After(c.ClubChampsDate.Time) {
			return fmt.Errorf("%w: champs_start_date %s is after club_champs_date %s",
				ErrInvalidConfig, c.ChampsStartDate, c.ClubChampsDate)
		}
	}
	return nil
}

// Require returns ErrInvalidConfig naming the first unset date. Each report
// needs a different set.
func (c *Config) Require(dates ...string) error {
	for _, name := range dates {
		d, ok := c.dateByKey(name)
		if !ok {
			return fmt.Errorf("%w: unknown date %q", ErrInvalidConfig, name)
		}
		if d.IsZero() {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, name)
		}
	}
	return nil
}

func (c *Config) dateByKey(key string) (Date, bool) {
	switch key {
	case "club_champs_date":
		return c.ClubChampsDate, true
	case "consideration_date":
		return c.ConsiderationDate, true
	case "champs_start_date":
		return c.ChampsStartDate, true
	case "age_on_date":
		return c.AgeOnDate, true
	case "qualifying_window_start":
		return c.QualifyingWindowStart, true
	default:
		return Date{}, false
	}
}
