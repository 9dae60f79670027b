package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/rigcheck/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"RIGCHECK_CONFIG",
	"RIGCHECK_ADDR",
	"RIGCHECK_LOG_FORMAT",
	"RIGCHECK_DB_PATH",
	"RIGCHECK_ADMIN_TOKEN",
	"RIGCHECK_HISTORY_WORKERS",
	"RIGCHECK_UNKNOWN_GAME_FALLBACK",
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "rigcheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.HistoryWorkers, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RIGCHECK_ADDR", ":8080")
			_ = os.Setenv("RIGCHECK_LOG_FORMAT", "JSON")
			_ = os.Setenv("RIGCHECK_DB_PATH", "/tmp/rigcheck.db")
			_ = os.Setenv("RIGCHECK_HISTORY_WORKERS", "4")
			_ = os.Setenv("RIGCHECK_UNKNOWN_GAME_FALLBACK", "true")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/rigcheck.db")
				convey.So(cfg.HistoryWorkers, convey.ShouldEqual, 4)
				convey.So(cfg.UnknownGameFallback, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeConfigFile(t, `
addr: ":9090"
admin_token: "from-file"
history_workers: 8
popular_games_limit: 3
`)
			_ = os.Setenv("RIGCHECK_CONFIG", path)
			_ = os.Setenv("RIGCHECK_ADMIN_TOKEN", "from-env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars take precedence over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.AdminToken, convey.ShouldEqual, "from-env")
				convey.So(cfg.HistoryWorkers, convey.ShouldEqual, 8)
				convey.So(cfg.PopularGamesLimit, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("RIGCHECK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is out of range", func() {
			_ = os.Setenv("RIGCHECK_HISTORY_WORKERS", "-2")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
