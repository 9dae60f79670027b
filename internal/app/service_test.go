package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/rigcheck/internal/app"
	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
	"github.com/okian/rigcheck/internal/domain/scoring"
	"github.com/okian/rigcheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var midPC = model.PC{CPU: "Intel Core i5-12400", GPU: "NVIDIA RTX 3060", RAM: "16 GB"}

// eventually polls cond until it holds or two seconds pass.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it serves the built-in tables before Start", func() {
			So(svc.Started(), ShouldBeFalse)
			So(svc.Games(context.Background()), ShouldHaveLength, 15)
			So(svc.Snapshot().Version, ShouldEqual, 0)
			fps, err := svc.EstimateFPS(context.Background(), midPC, "Counter-Strike 2")
			So(err, ShouldBeNil)
			So(fps, ShouldBeBetweenOrEqual, 62, 64)
		})
	})

	Convey("Given a service with a seed overlay", t, func() {
		svc := service.New(service.WithSeed(catalog.Overrides{
			Games: []model.Game{{
				Title:       "Hades II",
				Recommended: model.Tier{CPU: []string{"Intel i5-12400"}, GPU: []string{"NVIDIA RTX 2060"}, RAM: "16 GB"},
				High:        model.Tier{CPU: []string{"Intel i7-13620h"}, GPU: []string{"NVIDIA RTX 3060"}, RAM: "16 GB"},
			}},
			RemovedGames: []string{"Dota 2"},
		}))

		Convey("Then the seed is part of the snapshot", func() {
			_, err := svc.Game(context.Background(), "Hades II")
			So(err, ShouldBeNil)
			_, err = svc.Game(context.Background(), "Dota 2")
			So(errors.Is(err, catalog.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(100))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then starting again is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Started(), ShouldBeTrue)
			So(svc.Snapshot().Version, ShouldEqual, 1)
			So(svc.Stop(ctx), ShouldBeNil)
		})

		Convey("When stopping the service", func() {
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then it is marked as stopped and Stop is idempotent", func() {
				So(svc.Started(), ShouldBeFalse)
				So(svc.Stop(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Assess(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx) //nolint:errcheck

		Convey("When a registered game is assessed", func() {
			a, err := svc.Assess(ctx, "req-1", midPC, "Counter-Strike 2")

			Convey("Then it is classified and recorded", func() {
				So(err, ShouldBeNil)
				So(a.Status, ShouldEqual, scoring.StatusGood)
				So(a.Tier, ShouldEqual, scoring.LevelRecommended)
				So(a.Scores.GPU, ShouldEqual, 200.0)
				So(eventually(func() bool {
					st, err := svc.Stats(ctx)
					return err == nil && st.TotalChecks == 1
				}), ShouldBeTrue)
			})
		})

		Convey("When the same request id is assessed twice", func() {
			_, err := svc.Assess(ctx, "req-dup", midPC, "Dota 2")
			So(err, ShouldBeNil)
			_, err = svc.Assess(ctx, "req-dup", midPC, "Dota 2")
			So(err, ShouldBeNil)
			_, err = svc.Assess(ctx, "", midPC, "Elden Ring")
			So(err, ShouldBeNil)

			Convey("Then it is recorded once", func() {
				So(eventually(func() bool {
					st, err := svc.Stats(ctx)
					return err == nil && st.TotalChecks == 2
				}), ShouldBeTrue)
				time.Sleep(50 * time.Millisecond)
				st, err := svc.Stats(ctx)
				So(err, ShouldBeNil)
				So(st.TotalChecks, ShouldEqual, 2)
			})
		})

		Convey("When the game is unknown", func() {
			_, err := svc.Assess(ctx, "req-2", midPC, "Half-Life 3")

			Convey("Then ErrUnknownGame is returned", func() {
				So(errors.Is(err, scoring.ErrUnknownGame), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service with the unknown game fallback", t, func() {
		svc := service.New(service.WithEngine(scoring.NewEngine(scoring.WithUnknownGameFallback(true))))

		Convey("Then unknown titles are estimated with the fallback multiplier", func() {
			a, err := svc.Assess(context.Background(), "", midPC, "Half-Life 3")
			So(err, ShouldBeNil)
			So(a.FPS, ShouldEqual, 75)
		})
	})
}

func TestService_UpgradesAndGraph(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When upgrades are requested with a high budget", func() {
			plan, err := svc.Upgrades(ctx, midPC, "Cyberpunk 2077", model.BudgetHigh)

			Convey("Then the total equals the sum of prices", func() {
				So(err, ShouldBeNil)
				sum := 0.0
				for _, u := range plan.Recommendations {
					So(u.Recommended, ShouldNotEqual, u.Current)
					sum += u.Price
				}
				So(plan.TotalCost, ShouldEqual, sum)
			})
		})

		Convey("When the budget is invalid", func() {
			_, err := svc.Upgrades(ctx, midPC, "Cyberpunk 2077", model.Budget("unlimited"))
			So(errors.Is(err, scoring.ErrInvalidBudget), ShouldBeTrue)
		})

		Convey("When the graph is requested twice", func() {
			first := svc.Graph(ctx, midPC)
			first[0].FPS = -1
			second := svc.Graph(ctx, midPC)

			Convey("Then every game is present and callers cannot corrupt the cache", func() {
				So(second, ShouldHaveLength, 15)
				So(second[0].FPS, ShouldBeGreaterThan, 0)
				for i := 1; i < len(second); i++ {
					So(second[i-1].FPS, ShouldBeGreaterThanOrEqualTo, second[i].FPS)
				}
			})
		})

		Convey("When a game is added after a graph was cached", func() {
			before := svc.Graph(ctx, midPC)
			_, err := svc.AddGame(ctx, model.Game{
				Title:       "Bench",
				Recommended: model.Tier{CPU: []string{"Intel i5-12400"}, GPU: []string{"NVIDIA RTX 2060"}, RAM: "16 GB"},
			})
			So(err, ShouldBeNil)

			Convey("Then the next graph includes it", func() {
				So(svc.Graph(ctx, midPC), ShouldHaveLength, len(before)+1)
			})
		})
	})
}

func TestService_Admin(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When a component is added without performance or budget", func() {
			c, err := svc.AddComponent(ctx, model.Component{Type: model.GPU, Name: " NVIDIA RTX 5070 ", Price: 650})

			Convey("Then defaults are applied and it is visible", func() {
				So(err, ShouldBeNil)
				So(c.Name, ShouldEqual, "NVIDIA RTX 5070")
				So(c.Performance, ShouldEqual, catalog.DefaultPerformance)
				So(c.Budget, ShouldEqual, catalog.DefaultBudget)
				got, ok := svc.Snapshot().Components.Lookup(model.GPU, "nvidia rtx 5070")
				So(ok, ShouldBeTrue)
				So(got.Price, ShouldEqual, 650)
			})
		})

		Convey("When a component has no price", func() {
			_, err := svc.AddComponent(ctx, model.Component{Type: model.CPU, Name: "Free"})
			So(errors.Is(err, catalog.ErrInvalidComponent), ShouldBeTrue)
		})

		Convey("When a built-in component is renamed", func() {
			_, err := svc.UpdateComponent(ctx, "NVIDIA RTX 3060", model.Component{Type: model.GPU, Name: "NVIDIA GeForce RTX 3060", Price: 340, Performance: 200})
			So(err, ShouldBeNil)

			Convey("Then only the new name exists", func() {
				_, ok := svc.Snapshot().Components.Exact(model.GPU, "NVIDIA RTX 3060")
				So(ok, ShouldBeFalse)
				_, ok = svc.Snapshot().Components.Exact(model.GPU, "NVIDIA GeForce RTX 3060")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When a missing component is updated", func() {
			_, err := svc.UpdateComponent(ctx, "Nope", model.Component{Type: model.GPU, Name: "Nope", Price: 1})
			So(errors.Is(err, catalog.ErrNotFound), ShouldBeTrue)
		})

		Convey("When components are bulk deleted", func() {
			n, err := svc.DeleteComponents(ctx, model.RAM, "4 GB", "8 GB", "missing")

			Convey("Then existing ones are removed and counted", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				_, err = svc.DeleteComponents(ctx, model.RAM, "4 GB")
				So(errors.Is(err, catalog.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a game is renamed and another deleted", func() {
			g, err := svc.Game(ctx, "Dota 2")
			So(err, ShouldBeNil)
			g.Title = "Dota 2 Reborn"
			_, err = svc.UpdateGame(ctx, "Dota 2", g)
			So(err, ShouldBeNil)
			n, err := svc.DeleteGames(ctx, "Starfield")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)

			Convey("Then the registry reflects both edits", func() {
				titles := svc.Snapshot().Games.Titles()
				So(titles, ShouldContain, "Dota 2 Reborn")
				So(titles, ShouldNotContain, "Dota 2")
				So(titles, ShouldNotContain, "Starfield")
			})

			Convey("And a reload rebuilds the same registry from the store", func() {
				version := svc.Snapshot().Version
				next, err := svc.Reload(ctx)
				So(err, ShouldBeNil)
				So(next, ShouldEqual, version+1)
				So(svc.Snapshot().Version, ShouldEqual, version+1)
				titles := svc.Snapshot().Games.Titles()
				So(titles, ShouldContain, "Dota 2 Reborn")
				So(titles, ShouldNotContain, "Starfield")
			})
		})

		Convey("When stats are requested", func() {
			st, err := svc.Stats(ctx)

			Convey("Then catalog sizes are reported", func() {
				So(err, ShouldBeNil)
				So(st.Games, ShouldEqual, 15)
				So(st.Components, ShouldEqual, st.ByType[model.CPU]+st.ByType[model.GPU]+st.ByType[model.RAM])
				So(st.TotalChecks, ShouldEqual, 0)
				So(st.PopularGames, ShouldBeEmpty)
			})
		})
	})
}
