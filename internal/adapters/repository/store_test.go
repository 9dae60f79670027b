package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/rigcheck/internal/adapters/repository"
	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func stores(t *testing.T) map[string]func() repository.Store {
	return map[string]func() repository.Store{
		"memory": func() repository.Store { return repository.NewMemoryStore() },
		"sqlite": func() repository.Store {
			s, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "db", "rigcheck.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return s
		},
	}
}

var benchGame = model.Game{
	Title:       "Bench",
	Subtitle:    "synthetic",
	Minimum:     model.Tier{CPU: []string{"Intel i3-12100"}, GPU: []string{"NVIDIA GTX 1650"}, RAM: "8 GB"},
	Recommended: model.Tier{CPU: []string{"Intel i5-12400"}, GPU: []string{"NVIDIA RTX 2060"}, RAM: "16 GB"},
	High:        model.Tier{CPU: []string{"Intel i9-14900k"}, GPU: []string{"NVIDIA RTX 4060", "AMD RX 7800 XT"}, RAM: "32 GB"},
}

func TestStoreOverrides(t *testing.T) {
	for name, open := range stores(t) {
		Convey("Given an empty "+name+" store", t, func() {
			ctx := context.Background()
			s := open()
			defer s.Close()

			Convey("Then it has no overrides", func() {
				o, err := s.Overrides(ctx)
				So(err, ShouldBeNil)
				So(o.Len(), ShouldEqual, 0)
			})

			Convey("When a component is saved and then edited", func() {
				c := model.Component{Type: model.GPU, Name: "Custom GPU", Price: 100, Performance: 150, Budget: model.BudgetLow, Link: "https://shop/x"}
				So(s.SaveComponent(ctx, "", c), ShouldBeNil)
				c.Price = 120
				So(s.SaveComponent(ctx, "Custom GPU", c), ShouldBeNil)

				Convey("Then one row holds the latest values", func() {
					o, err := s.Overrides(ctx)
					So(err, ShouldBeNil)
					So(o.Components, ShouldHaveLength, 1)
					So(o.Components[0], ShouldResemble, c)
					So(o.RemovedComponents, ShouldBeEmpty)
				})
			})

			Convey("When a component is renamed", func() {
				c := model.Component{Type: model.RAM, Name: "16GB", Price: 50, Performance: 150, Budget: model.BudgetMedium}
				So(s.SaveComponent(ctx, "", c), ShouldBeNil)
				c.Name = "16 GB DDR5"
				So(s.SaveComponent(ctx, "16GB", c), ShouldBeNil)

				Convey("Then the old name is recorded as removed", func() {
					o, err := s.Overrides(ctx)
					So(err, ShouldBeNil)
					So(o.Components, ShouldHaveLength, 1)
					So(o.Components[0].Name, ShouldEqual, "16 GB DDR5")
					So(o.RemovedComponents, ShouldResemble, []catalog.ComponentKey{{Type: model.RAM, Name: "16GB"}})
				})
			})

			Convey("When a built-in component is deleted and later re-added", func() {
				So(s.DeleteComponent(ctx, model.CPU, "Intel Core i3-10100"), ShouldBeNil)
				o, err := s.Overrides(ctx)
				So(err, ShouldBeNil)
				So(o.RemovedComponents, ShouldHaveLength, 1)

				c := model.Component{Type: model.CPU, Name: "Intel Core i3-10100", Price: 85, Performance: 95, Budget: model.BudgetLow}
				So(s.SaveComponent(ctx, "", c), ShouldBeNil)

				Convey("Then the tombstone is cleared", func() {
					o, err := s.Overrides(ctx)
					So(err, ShouldBeNil)
					So(o.RemovedComponents, ShouldBeEmpty)
					So(o.Components, ShouldHaveLength, 1)
				})
			})

			Convey("When a game is saved and renamed", func() {
				So(s.SaveGame(ctx, "", benchGame), ShouldBeNil)
				renamed := benchGame.Clone()
				renamed.Title = "Bench 2"
				So(s.SaveGame(ctx, "Bench", renamed), ShouldBeNil)

				Convey("Then tiers round trip and the old title is removed", func() {
					o, err := s.Overrides(ctx)
					So(err, ShouldBeNil)
					So(o.Games, ShouldHaveLength, 1)
					So(o.Games[0], ShouldResemble, renamed)
					So(o.RemovedGames, ShouldResemble, []string{"Bench"})
				})
			})

			Convey("When a game is deleted", func() {
				So(s.DeleteGame(ctx, "Dota 2"), ShouldBeNil)

				Convey("Then it is listed as removed", func() {
					o, err := s.Overrides(ctx)
					So(err, ShouldBeNil)
					So(o.RemovedGames, ShouldResemble, []string{"Dota 2"})
				})
			})
		})
	}
}

func TestStoreHistory(t *testing.T) {
	for name, open := range stores(t) {
		Convey("Given a "+name+" store with recorded checks", t, func() {
			ctx := context.Background()
			s := open()
			defer s.Close()

			for i, g := range []string{"Dota 2", "Elden Ring", "Dota 2", "Apex Legends", "Elden Ring", "Dota 2"} {
				So(s.RecordCheck(ctx, model.CheckRecord{
					Game:      g,
					FPS:       60 + i,
					Status:    "good",
					CheckedAt: time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
				}), ShouldBeNil)
			}

			Convey("Then checks are counted", func() {
				n, err := s.CheckCount(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 6)
			})

			Convey("Then popular games are ordered by checks then title", func() {
				top, err := s.PopularGames(ctx, 2)
				So(err, ShouldBeNil)
				So(top, ShouldResemble, []repository.GameCount{
					{Game: "Dota 2", Checks: 3},
					{Game: "Elden Ring", Checks: 2},
				})
			})

			Convey("When the limit exceeds the number of games", func() {
				top, err := s.PopularGames(ctx, 10)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 3)
			})

			Convey("When the limit is not positive", func() {
				_, err := s.PopularGames(ctx, 0)
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})

			Convey("When the same record id is written twice", func() {
				rec := model.CheckRecord{ID: "01J00000000000000000000000", Game: "Valorant", FPS: 200, Status: "excellent"}
				So(s.RecordCheck(ctx, rec), ShouldBeNil)
				So(s.RecordCheck(ctx, rec), ShouldBeNil)

				Convey("Then it is stored once", func() {
					n, err := s.CheckCount(ctx)
					So(err, ShouldBeNil)
					So(n, ShouldEqual, 7)
				})
			})
		})
	}
}

func TestSQLiteStorePersistence(t *testing.T) {
	Convey("Given a SQLite file with overrides", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "rigcheck.db")
		s, err := repository.NewSQLiteStore(path)
		So(err, ShouldBeNil)
		So(s.SaveGame(ctx, "", benchGame), ShouldBeNil)
		So(s.RecordCheck(ctx, model.CheckRecord{Game: "Bench", FPS: 60, Status: "good"}), ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		Convey("When the file is reopened", func() {
			s, err := repository.NewSQLiteStore(path)
			So(err, ShouldBeNil)
			defer s.Close()

			Convey("Then the data is still there", func() {
				o, err := s.Overrides(ctx)
				So(err, ShouldBeNil)
				So(o.Games, ShouldHaveLength, 1)
				n, err := s.CheckCount(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})
	})
}

func TestClosedStores(t *testing.T) {
	Convey("Given closed stores of both kinds", t, func() {
		ctx := context.Background()
		sqlite, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "closed.db"))
		So(err, ShouldBeNil)

		stores := []struct {
			name string
			s    repository.Store
		}{
			{"memory", repository.NewMemoryStore()},
			{"sqlite", sqlite},
		}
		for _, tc := range stores {
			name, s := tc.name, tc.s
			So(s.Close(), ShouldBeNil)

			Convey("Then every "+name+" operation fails with ErrClosed", func() {
				So(errors.Is(s.RecordCheck(ctx, model.CheckRecord{Game: "x"}), repository.ErrClosed), ShouldBeTrue)
				So(errors.Is(s.SaveGame(ctx, "", benchGame), repository.ErrClosed), ShouldBeTrue)
				So(errors.Is(s.DeleteGame(ctx, "Bench"), repository.ErrClosed), ShouldBeTrue)
				So(errors.Is(s.DeleteComponent(ctx, model.CPU, "x"), repository.ErrClosed), ShouldBeTrue)
				_, err := s.Overrides(ctx)
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
				_, err = s.CheckCount(ctx)
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
				_, err = s.PopularGames(ctx, 3)
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
			})

			Convey("And closing "+name+" again is harmless", func() {
				So(s.Close(), ShouldBeNil)
			})
		}
	})
}

func TestLoadSeedFile(t *testing.T) {
	Convey("Given seed files", t, func() {
		dir := t.TempDir()
		write := func(name, body string) string {
			p := filepath.Join(dir, name)
			So(os.WriteFile(p, []byte(body), 0o600), ShouldBeNil)
			return p
		}

		Convey("When the file is valid", func() {
			path := write("seed.yaml", `
components:
  - type: gpu
    name: " NVIDIA RTX 5070 "
    price: 650
    performance: 360
    budget: high
    link: https://example.com/5070
  - type: ram
    name: 24 GB
    price: 80
games:
  - title: Hades II
    subtitle: Roguelike
    minimum: {cpu: ["Intel i3-12100"], gpu: ["NVIDIA GTX 1650"], ram: "8 GB"}
    recommended: {cpu: ["Intel i5-12400"], gpu: ["NVIDIA RTX 2060"], ram: "16 GB"}
    high: {cpu: ["Intel i7-13620h"], gpu: ["NVIDIA RTX 3060"], ram: "16 GB"}
remove:
  components:
    - {type: ram, name: "4 GB"}
  games: ["Dota 2"]
`)
			o, err := repository.LoadSeedFile(path)

			Convey("Then entries are normalized", func() {
				So(err, ShouldBeNil)
				So(o.Components, ShouldHaveLength, 2)
				So(o.Components[0].Name, ShouldEqual, "NVIDIA RTX 5070")
				So(o.Components[0].Budget, ShouldEqual, model.BudgetHigh)
				So(o.Components[1].Performance, ShouldEqual, catalog.DefaultPerformance)
				So(o.Components[1].Budget, ShouldEqual, catalog.DefaultBudget)
				So(o.Games, ShouldHaveLength, 1)
				So(o.Games[0].High.GPU, ShouldResemble, []string{"NVIDIA RTX 3060"})
				So(o.RemovedComponents, ShouldResemble, []catalog.ComponentKey{{Type: model.RAM, Name: "4 GB"}})
				So(o.RemovedGames, ShouldResemble, []string{"Dota 2"})
			})

			Convey("And importing it into a store persists every entry", func() {
				s := repository.NewMemoryStore()
				So(repository.Import(context.Background(), s, o), ShouldBeNil)
				stored, err := s.Overrides(context.Background())
				So(err, ShouldBeNil)
				So(stored.Len(), ShouldEqual, o.Len())
			})
		})

		Convey("When entries are invalid", func() {
			path := write("bad.yaml", `
components:
  - {type: psu, name: "650W", price: 90}
  - {type: cpu, name: "Free CPU", price: 0}
games:
  - {title: ""}
`)
			_, err := repository.LoadSeedFile(path)

			Convey("Then every problem is reported", func() {
				So(errors.Is(err, repository.ErrInvalidSeed), ShouldBeTrue)
				So(errors.Is(err, catalog.ErrInvalidComponent), ShouldBeTrue)
				So(errors.Is(err, catalog.ErrInvalidGame), ShouldBeTrue)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := repository.LoadSeedFile(filepath.Join(dir, "missing.yaml"))
			So(errors.Is(err, repository.ErrInvalidSeed), ShouldBeTrue)
		})
	})
}
