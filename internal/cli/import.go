package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/rigcheck/internal/adapters/repository"
)

var errNoDatabase = errors.New("import needs --db or $" + EnvDB)

type importResult struct {
	OK                bool   `json:"ok"`
	Components        int    `json:"components"`
	Games             int    `json:"games"`
	RemovedComponents int    `json:"removed_components"`
	RemovedGames      int    `json:"removed_games"`
	Path              string `json:"path"`
}

func newImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.yaml>",
		Short: "Persist a YAML catalog overlay into the database",
		Long:  "Validates every entry of a seed file and stores it as admin overrides. Nothing is written if any entry is invalid.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.path() == "" {
				return errNoDatabase
			}
			o, err := repository.LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			store, err := g.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := repository.Import(cmd.Context(), store, o); err != nil {
				return fmt.Errorf("import: %w", err)
			}
			res := importResult{
				OK:                true,
				Components:        len(o.Components),
				Games:             len(o.Games),
				RemovedComponents: len(o.RemovedComponents),
				RemovedGames:      len(o.RemovedGames),
				Path:              g.path(),
			}
			return g.render(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "imported %d components and %d games into %s\n", res.Components, res.Games, res.Path)
			})
		},
	}
}
