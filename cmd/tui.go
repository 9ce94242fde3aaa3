// ABOUTME: TUI command launching the interactive terminal interface
// ABOUTME: Starts at the login screen or dashboard depending on the session

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sloobman/ControlSystem/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal interface",
	Long: `Launch the interactive terminal interface.

Opens the dashboard when a stored session is still valid, otherwise the
login screen. From there: defect list, defect details with comments, and
a create-defect wizard.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := tui.Run(a); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
