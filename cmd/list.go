// ABOUTME: List and get commands for defects
// ABOUTME: Reads go through the query cache so repeated fetches coalesce

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

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all defects",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if code := runList(ctx, os.Stdout, a); code != 0 {
			os.Exit(code)
		}
	},
}

var getCmd = &cobra.Command{
	Use:   "get <defect-id>",
	Short: "Show one defect with its comments",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if code := runGet(ctx, os.Stdout, a, args[0]); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
}

// runList fetches the defect collection and returns exit code
func runList(ctx context.Context, w io.Writer, a *app.App) int {
	defects, err := a.Cache.Defects(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(defects))
		return 0
	}

	if len(defects) == 0 {
		fmt.Fprintln(w, "No defects.")
		return 0
	}

	fmt.Fprintf(w, "%-36s  %-11s  %-8s  %-20s  %s\n", "ID", "STATUS", "PRIORITY", "LOCATION", "TITLE")
	for _, d := range defects {
		fmt.Fprintf(w, "%-36s  %-11s  %-8s  %-20s  %s\n",
			d.ID, d.Status, d.Priority, truncate(d.Location, 20), d.Title)
	}
	return 0
}

// runGet fetches a single defect and returns exit code
func runGet(ctx context.Context, w io.Writer, a *app.App, id string) int {
	defect, err := a.Cache.Defect(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(defect))
		return 0
	}

	fmt.Fprintln(w, formatDefectHuman(defect))
	return 0
}

// formatDefectHuman formats a defect for human readability
func formatDefectHuman(d *api.Defect) string {
	assignee := "-"
	if d.AssignedTo != nil {
		assignee = fmt.Sprintf("%s (%s)", d.AssignedTo.Name, d.AssignedTo.Role)
	}

	out := fmt.Sprintf(`%s
ID:          %s
Status:      %s
Priority:    %s
Location:    %s
Assigned to: %s
Reported by: %s
Created:     %s
Updated:     %s

%s`,
		d.Title,
		d.ID,
		d.Status,
		d.Priority,
		d.Location,
		assignee,
		d.CreatedBy.Name,
		d.CreatedAt,
		d.UpdatedAt,
		d.Description)

	if len(d.Photos) > 0 {
		out += "\n\nPhotos:"
		for _, p := range d.Photos {
			out += "\n  " + p
		}
	}

	if len(d.Comments) > 0 {
		out += fmt.Sprintf("\n\nComments (%d):", len(d.Comments))
		for _, c := range d.Comments {
			out += fmt.Sprintf("\n  [%s] %s: %s", c.CreatedAt, c.Author.Name, c.Content)
		}
	}

	return out
}

// truncate shortens s to at most n runes, with an ellipsis when cut
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
