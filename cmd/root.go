// ABOUTME: Root command for the defectctl CLI
// ABOUTME: Handles global flags and builds the shared application object

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sloobman/ControlSystem/internal/app"
	"github.com/sloobman/ControlSystem/internal/config"
	"github.com/sloobman/ControlSystem/internal/logger"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "defectctl",
	Short: "CLI for the ControlSystem defect tracker",
	Long: `defectctl is a command-line interface for the ControlSystem
construction-site defect tracker.

Register defects, assign them to responsible staff, track status through
the lifecycle, comment, and view aggregate statistics — from the terminal
or from CI scripts.

Environment Variables:
  DEFECTCTL_API_URL     Backend API URL (default: http://localhost:8080)
  DEFECTCTL_TIMEOUT     Per-request timeout in seconds (default: 30)
  DEFECTCTL_CONFIG_DIR  Where the session file is stored
  DEFECTCTL_DEBUG       Write a TUI debug log under the config dir`,
}

// Execute runs the root command
func Execute() error {
	logger.Init()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides DEFECTCTL_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// newApp loads configuration and builds the application object, applying
// the --api-url flag on top of the environment.
func newApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	return app.New(cfg), nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
