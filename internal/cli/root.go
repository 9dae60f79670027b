// Package cli implements the rigcheck command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/rigcheck/internal/adapters/repository"
	service "github.com/okian/rigcheck/internal/app"
	"github.com/okian/rigcheck/internal/domain/scoring"
	"github.com/okian/rigcheck/pkg/logger"
)

// EnvDB names the database used when --db is not given.
const EnvDB = "RIGCHECK_DB"

// Output formats.
const (
	formatJSON = "json"
	formatText = "text"
)

type globals struct {
	dbPath   string
	format   string
	fallback bool
}

// NewRootCmd builds the top-level command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "rigcheck",
		Short:         "Estimate how a PC runs a game",
		Long:          "Estimates frame rates for a PC, classifies them and recommends upgrades within a budget.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if g.format != formatJSON && g.format != formatText {
				return fmt.Errorf("unknown format %q, want json or text", g.format)
			}
			// Reload chatter belongs to the server; the CLI reports warnings only.
			return logger.SetLevelString("warn")
		},
	}
	root.PersistentFlags().StringVarP(&g.dbPath, "db", "d", "", "SQLite database path (default: $"+EnvDB+", empty uses the built-in tables only)")
	root.PersistentFlags().StringVarP(&g.format, "format", "f", formatText, "Output format: json or text")
	root.PersistentFlags().BoolVar(&g.fallback, "fallback", false, "Estimate unknown games with the fallback multiplier")

	root.AddCommand(
		newEstimateCmd(g),
		newUpgradeCmd(g),
		newGraphCmd(g),
		newGamesCmd(g),
		newComponentsCmd(g),
		newImportCmd(g),
		newLoadTestCmd(g),
	)
	return root
}

// Execute runs the command tree and reports a failure on stderr.
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
		return 1
	}
	return 0
}

func (g *globals) path() string {
	if g.dbPath != "" {
		return g.dbPath
	}
	return os.Getenv(EnvDB)
}

func (g *globals) openStore() (repository.Store, error) {
	p := g.path()
	if p == "" {
		return repository.NewMemoryStore(), nil
	}
	s, err := repository.NewSQLiteStore(p)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// withService runs fn against a service holding the stored overrides. No
// history is recorded.
func (g *globals) withService(ctx context.Context, fn func(*service.Service) error) error {
	store, err := g.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	svc := service.New(
		service.WithStore(store),
		service.WithEngine(scoring.NewEngine(scoring.WithUnknownGameFallback(g.fallback))),
		service.WithLogger(logger.Named("cli")),
	)
	if _, err := svc.Reload(ctx); err != nil {
		return err
	}
	return fn(svc)
}

// render writes v as indented JSON or calls text for the text format.
func (g *globals) render(w io.Writer, v any, text func(io.Writer)) error {
	if g.format == formatText {
		text(w)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
