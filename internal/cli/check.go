package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/rigcheck/internal/app"
	"github.com/okian/rigcheck/internal/domain/model"
	"github.com/okian/rigcheck/internal/domain/scoring"
)

var errMissingPart = errors.New("--cpu and --gpu are required")

type pcFlags struct {
	cpu, gpu, ram string
}

func (f *pcFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cpu, "cpu", "", "CPU model, e.g. \"Intel Core i5-12400\"")
	cmd.Flags().StringVar(&f.gpu, "gpu", "", "GPU model, e.g. \"NVIDIA RTX 3060\"")
	cmd.Flags().StringVar(&f.ram, "ram", "", "Installed memory, e.g. \"16 GB\"")
}

func (f *pcFlags) pc() (model.PC, error) {
	pc := model.PC{
		CPU: strings.TrimSpace(f.cpu),
		GPU: strings.TrimSpace(f.gpu),
		RAM: strings.TrimSpace(f.ram),
	}
	if pc.CPU == "" || pc.GPU == "" {
		return model.PC{}, errMissingPart
	}
	return pc, nil
}

func newEstimateCmd(g *globals) *cobra.Command {
	var (
		pf   pcFlags
		game string
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate FPS and classify a PC for one game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pc, err := pf.pc()
			if err != nil {
				return err
			}
			return g.withService(cmd.Context(), func(svc *service.Service) error {
				a, err := svc.Assess(cmd.Context(), "", pc, game)
				if err != nil {
					return err
				}
				return g.render(cmd.OutOrStdout(), a, func(w io.Writer) {
					fmt.Fprintf(w, "%s: %d FPS, %s (%s)\n", a.Game, a.FPS, a.Status, a.Message)
				})
			})
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&game, "game", "", "Game title")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}

func newUpgradeCmd(g *globals) *cobra.Command {
	var (
		pf     pcFlags
		game   string
		budget string
	)
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Recommend upgrades for one game within a budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pc, err := pf.pc()
			if err != nil {
				return err
			}
			b, err := model.ParseBudget(budget)
			if err != nil {
				return fmt.Errorf("%w: %w", scoring.ErrInvalidBudget, err)
			}
			return g.withService(cmd.Context(), func(svc *service.Service) error {
				plan, err := svc.Upgrades(cmd.Context(), pc, game, b)
				if err != nil {
					return err
				}
				return g.render(cmd.OutOrStdout(), plan, func(w io.Writer) {
					if len(plan.Recommendations) == 0 {
						fmt.Fprintln(w, "Your PC is already ideal for this game")
						return
					}
					for _, u := range plan.Recommendations {
						fmt.Fprintf(w, "%-4s %s -> %s  %.2f  [%s]\n", u.Category, u.Current, u.Recommended, u.Price, u.Priority)
					}
					fmt.Fprintf(w, "total %.2f (%s budget)\n", plan.TotalCost, plan.Budget)
				})
			})
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&game, "game", "", "Game title")
	cmd.Flags().StringVar(&budget, "budget", string(model.BudgetMedium), "Shopper budget: low, medium or high")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}

func newGraphCmd(g *globals) *cobra.Command {
	var pf pcFlags
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Estimate a PC against every game, fastest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pc, err := pf.pc()
			if err != nil {
				return err
			}
			return g.withService(cmd.Context(), func(svc *service.Service) error {
				points := svc.Graph(cmd.Context(), pc)
				return g.render(cmd.OutOrStdout(), points, func(w io.Writer) {
					for _, p := range points {
						fmt.Fprintf(w, "%4d  %-13s %s\n", p.FPS, p.Status, p.Game)
					}
				})
			})
		},
	}
	pf.bind(cmd)
	return cmd
}
