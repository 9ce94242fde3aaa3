// ABOUTME: Stats command showing aggregate defect counts
// ABOUTME: Suitable for dashboards and CI checks via --json

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sloobman/ControlSystem/internal/api"
	"github.com/sloobman/ControlSystem/internal/app"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate defect statistics",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if code := runStats(ctx, os.Stdout, a); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats fetches the aggregate statistics and returns exit code
func runStats(ctx context.Context, w io.Writer, a *app.App) int {
	stats, err := a.Cache.Stats(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(stats))
	} else {
		fmt.Fprintln(w, formatStatsHuman(stats))
	}
	return 0
}

// formatStatsHuman formats statistics for human readability
func formatStatsHuman(s *api.DefectStats) string {
	return fmt.Sprintf(`Defects:      %d

By status:
  open         %d
  in_progress  %d
  resolved     %d
  closed       %d

By priority:
  low          %d
  medium       %d
  high         %d
  critical     %d`,
		s.Total,
		s.Open, s.InProgress, s.Resolved, s.Closed,
		s.ByPriority.Low, s.ByPriority.Medium, s.ByPriority.High, s.ByPriority.Critical)
}
