package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/rigcheck/internal/loadtest"
	"github.com/okian/rigcheck/pkg/logger"
)

func newLoadTestCmd(g *globals) *cobra.Command {
	cfg := loadtest.Config{}
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Send concurrent checks to a running server and verify the history",
		Long: "Generates compatibility checks from the server's own catalog, resends a share of them " +
			"with the same X-Request-ID and verifies via /admin/stats that each request was recorded once.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.AdminToken == "" {
				cfg.AdminToken = os.Getenv("RIGCHECK_ADMIN_TOKEN")
			}
			// Progress goes to the log; the summary is the command output.
			if err := logger.SetLevelString("info"); err != nil {
				return err
			}
			st, err := loadtest.Run(cmd.Context(), cfg, logger.Named("loadtest"))
			if rerr := g.render(cmd.OutOrStdout(), st, func(w io.Writer) {
				fmt.Fprintf(w, "sent %d (%d ok, %d failed), %d distinct, %d recorded in %s (%.0f checks/s)\n",
					st.Sent, st.Succeeded, st.Failed, st.Unique, st.Recorded, st.Duration.Round(time.Millisecond), st.ChecksPerSec)
			}); rerr != nil && err == nil {
				err = rerr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	cmd.Flags().StringVar(&cfg.AdminToken, "token", "", "Admin bearer token (default: $RIGCHECK_ADMIN_TOKEN)")
	cmd.Flags().IntVar(&cfg.Checks, "checks", loadtest.DefaultChecks, "Number of distinct checks to send")
	cmd.Flags().Float64Var(&cfg.RetryRatio, "retry-ratio", loadtest.DefaultRetryRatio, "Share of checks resent with the same request id")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "Number of concurrent senders")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", loadtest.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().DurationVar(&cfg.Settle, "settle", loadtest.DefaultSettle, "How long to wait for the history to catch up")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "Random seed (default: from the clock)")
	return cmd
}
