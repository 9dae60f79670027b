package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/rigcheck/internal/config"
	"github.com/okian/rigcheck/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.New(context.Background())
	cfg.DBPath = filepath.Join(t.TempDir(), "rigcheck.db")
	cfg.AdminToken = "token"
	return cfg
}

func TestMainApplicationWiring(t *testing.T) {
	convey.Convey("Given a configuration with a SQLite file and an admin token", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)
		log := logger.Get()

		svc, err := newService(cfg, log)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		h := newHandler(ctx, cfg, svc, log)

		convey.Convey("Then public, docs and metrics routes are served", func() {
			for _, path := range []string{"/healthz", "/games", "/api-docs", "/openapi.yaml", "/metrics"} {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then admin routes accept the configured token", func() {
			r := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
			r.Header.Set("Authorization", "Bearer token")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then a compatibility check succeeds", func() {
			body := `{"pc":{"cpu":"Intel Core i5-12400","gpu":"NVIDIA RTX 3060","ram":"16 GB"},"game":"Dota 2"}`
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/compatibility", strings.NewReader(body)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})
	})

	convey.Convey("Given a seed file", t, func() {
		cfg := testConfig(t)
		cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
		convey.So(os.WriteFile(cfg.SeedFile, []byte("remove:\n  games: [\"Dota 2\"]\n"), 0o600), convey.ShouldBeNil)

		convey.Convey("Then the service starts with the overlay applied", func() {
			svc, err := newService(cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			_, ok := svc.Snapshot().Games.Get("Dota 2")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When the seed file is broken", func() {
			convey.So(os.WriteFile(cfg.SeedFile, []byte("components:\n  - {type: psu, name: x, price: 1}\n"), 0o600), convey.ShouldBeNil)

			convey.Convey("Then building the service fails", func() {
				_, err := newService(cfg, logger.Get())
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})

	convey.Convey("Given an unusable database path", t, func() {
		cfg := testConfig(t)
		cfg.DBPath = filepath.Join(t.TempDir(), "file")
		convey.So(os.WriteFile(cfg.DBPath, []byte("x"), 0o600), convey.ShouldBeNil)
		cfg.DBPath = filepath.Join(cfg.DBPath, "rigcheck.db")

		convey.Convey("Then building the service fails", func() {
			_, err := newService(cfg, logger.Get())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMainMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		cfg := config.New(context.Background())
		svc, err := newService(cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then single updates do not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(context.Background(), svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loops return when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})
	})
}
