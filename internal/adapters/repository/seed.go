package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
)

// seedDoc is the layout of a seed file:
//
//	components:
//	  - {type: gpu, name: "NVIDIA RTX 5070", price: 650, performance: 360, budget: high}
//	games:
//	  - title: "Hades II"
//	    minimum: {cpu: ["Intel i3-12100"], gpu: ["NVIDIA GTX 1650"], ram: "8 GB"}
//	remove:
//	  components: [{type: ram, name: "4 GB"}]
//	  games: ["Dota 2"]
type seedDoc struct {
	Components []model.Component `json:"components"`
	Games      []model.Game      `json:"games"`
	Remove     struct {
		Components []catalog.ComponentKey `json:"components"`
		Games      []string               `json:"games"`
	} `json:"remove"`
}

// LoadSeedFile reads a YAML catalog overlay. Every entry is validated and all
// problems are reported together.
func LoadSeedFile(path string) (catalog.Overrides, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return catalog.Overrides{}, fmt.Errorf("%w: %s: %w", ErrInvalidSeed, path, err)
	}

	var doc seedDoc
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return catalog.Overrides{}, fmt.Errorf("%w: %s: %w", ErrInvalidSeed, path, err)
	}

	o := catalog.Overrides{
		RemovedComponents: doc.Remove.Components,
		RemovedGames:      doc.Remove.Games,
	}
	var errs []error
	for _, c := range doc.Components {
		n, err := catalog.Normalize(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		o.Components = append(o.Components, n)
	}
	for _, g := range doc.Games {
		n, err := catalog.NormalizeGame(g)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		o.Games = append(o.Games, n)
	}
	if len(errs) > 0 {
		return catalog.Overrides{}, fmt.Errorf("%w: %s: %w", ErrInvalidSeed, path, errors.Join(errs...))
	}
	return o, nil
}

// Import persists every entry of o into s.
func Import(ctx context.Context, s Store, o catalog.Overrides) error {
	for _, k := range o.RemovedComponents {
		if err := s.DeleteComponent(ctx, k.Type, k.Name); err != nil {
			return err
		}
	}
	for _, t := range o.RemovedGames {
		if err := s.DeleteGame(ctx, t); err != nil {
			return err
		}
	}
	for _, c := range o.Components {
		if err := s.SaveComponent(ctx, "", c); err != nil {
			return err
		}
	}
	for _, g := range o.Games {
		if err := s.SaveGame(ctx, "", g); err != nil {
			return err
		}
	}
	return nil
}
