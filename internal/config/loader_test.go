package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/swimtimes/internal/config"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{ //nolint:gochecknoglobals // test fixture
	"SWIMTIMES_CONFIG",
	"SWIMTIMES_LOG_LEVEL",
	"SWIMTIMES_MAXIMUM_AGE",
	"SWIMTIMES_WORKER_COUNT",
	"SWIMTIMES_CLUB_CHAMPS_DATE",
	"SWIMTIMES_AGE_ON_DATE",
	"SWIMTIMES_EXCLUDED_MEETS",
	"SWIMTIMES_SKIP_MALFORMED",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "swimtimes.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MaximumAge, convey.ShouldEqual, 21)
				convey.So(cfg.OutputDir, convey.ShouldEqual, ".")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SWIMTIMES_MAXIMUM_AGE", "18")
			_ = os.Setenv("SWIMTIMES_WORKER_COUNT", "4")
			_ = os.Setenv("SWIMTIMES_CLUB_CHAMPS_DATE", "19/9/2015")
			_ = os.Setenv("SWIMTIMES_EXCLUDED_MEETS", "Winsford  Club Championships;Open Meet, Leeds")
			_ = os.Setenv("SWIMTIMES_SKIP_MALFORMED", "true")

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MaximumAge, convey.ShouldEqual, 18)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.ClubChampsDate.Time, convey.ShouldEqual, model.Date(2015, time.September, 19))
				convey.So(cfg.ExcludedMeets, convey.ShouldResemble, []string{"Winsford  Club Championships", "Open Meet, Leeds"})
				convey.So(cfg.SkipMalformed, convey.ShouldBeTrue)
				convey.So(cfg.ConsiderationDate.String(), convey.ShouldEqual, "19/09/2014")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := createTempConfigFile(t, `
swim_list: /data/SwimList.txt
age_on_date: 31/12/2016
qualifying_window_start: 8/6/2015
excluded_meets:
  - Winsford  Club Championships
excluded_swimmers:
  - Alisha Hawkins
  - Ashley Hogg
worker_count: 2
`)
			_ = os.Setenv("SWIMTIMES_CONFIG", path)

			cfg, err := config.Load()

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SwimList, convey.ShouldEqual, "/data/SwimList.txt")
				convey.So(cfg.AgeOnDate.String(), convey.ShouldEqual, "31/12/2016")
				convey.So(cfg.QualifyingWindowStart.String(), convey.ShouldEqual, "08/06/2015")
				convey.So(cfg.ExcludedMeets, convey.ShouldResemble, []string{"Winsford  Club Championships"})
				convey.So(cfg.ExcludedSwimmers, convey.ShouldHaveLength, 2)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := createTempConfigFile(t, "maximum_age: 16\nworker_count: 2\n")
			_ = os.Setenv("SWIMTIMES_CONFIG", path)
			_ = os.Setenv("SWIMTIMES_WORKER_COUNT", "8")

			cfg, err := config.Load()

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MaximumAge, convey.ShouldEqual, 16) // from file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 8) // from env
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a date is malformed", func() {
			_ = os.Setenv("SWIMTIMES_AGE_ON_DATE", "2016-12-31")
			_, err := config.Load()

			convey.Convey("Then the config is invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the log level is unknown", func() {
			_ = os.Setenv("SWIMTIMES_LOG_LEVEL", "chatty")
			_, err := config.Load()

			convey.Convey("Then the config is invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
