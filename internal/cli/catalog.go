package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	service "github.com/okian/rigcheck/internal/app"
	"github.com/okian/rigcheck/internal/domain/model"
)

func newGamesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List registered games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withService(cmd.Context(), func(svc *service.Service) error {
				games := svc.Games(cmd.Context())
				return g.render(cmd.OutOrStdout(), games, func(w io.Writer) {
					for _, game := range games {
						fmt.Fprintln(w, game.Title)
					}
				})
			})
		},
	}
}

func newComponentsCmd(g *globals) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "components",
		Short: "List catalog components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var t model.ComponentType
			if typ != "" {
				var err error
				if t, err = model.ParseComponentType(typ); err != nil {
					return err
				}
			}
			return g.withService(cmd.Context(), func(svc *service.Service) error {
				list := svc.Components(cmd.Context(), t)
				return g.render(cmd.OutOrStdout(), list, func(w io.Writer) {
					for _, c := range list {
						fmt.Fprintf(w, "%-4s %-28s %8.2f  perf %-5.0f %s\n", c.Type, c.Name, c.Price, c.Performance, c.Budget)
					}
				})
			})
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "Component type: cpu, gpu or ram")
	return cmd
}
