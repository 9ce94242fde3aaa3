// ABOUTME: Update, delete, and comment commands for defects
// ABOUTME: Update sends only the fields whose flags were actually set

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sloobman/ControlSystem/internal/api"
	"github.com/sloobman/ControlSystem/internal/app"
)

var (
	updateTitle       string
	updateDescription string
	updateStatus      string
	updatePriority    string
	updateLocation    string
	updateAssignee    string
)

var updateCmd = &cobra.Command{
	Use:   "update <defect-id>",
	Short: "Update fields of an existing defect",
	Long: `Update fields of an existing defect.

Only the flags you pass are sent to the server; everything else is left
untouched. The server decides whether a status transition is legal.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		req := api.UpdateDefectRequest{}
		if cmd.Flags().Changed("title") {
			req.Title = &updateTitle
		}
		if cmd.Flags().Changed("description") {
			req.Description = &updateDescription
		}
		if cmd.Flags().Changed("status") {
			s := api.Status(updateStatus)
			req.Status = &s
		}
		if cmd.Flags().Changed("priority") {
			p := api.Priority(updatePriority)
			req.Priority = &p
		}
		if cmd.Flags().Changed("location") {
			req.Location = &updateLocation
		}
		if cmd.Flags().Changed("assignee") {
			req.AssignedToID = &updateAssignee
		}

		if code := runUpdate(ctx, os.Stdout, a, args[0], req); code != 0 {
			os.Exit(code)
		}
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <defect-id>",
	Short: "Delete a defect",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if code := runDelete(ctx, os.Stdout, a, args[0]); code != 0 {
			os.Exit(code)
		}
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <defect-id> <text>...",
	Short: "Add a comment to a defect",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		content := strings.Join(args[1:], " ")
		if code := runComment(ctx, os.Stdout, a, args[0], content); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "New description")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "New status: open, in_progress, resolved, or closed")
	updateCmd.Flags().StringVar(&updatePriority, "priority", "", "New priority: low, medium, high, or critical")
	updateCmd.Flags().StringVar(&updateLocation, "location", "", "New location")
	updateCmd.Flags().StringVar(&updateAssignee, "assignee", "", "New assignee user ID (empty to unassign)")

	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(commentCmd)
}

// runUpdate applies the partial update and returns exit code
func runUpdate(ctx context.Context, w io.Writer, a *app.App, id string, req api.UpdateDefectRequest) int {
	defect, err := a.Cache.UpdateDefect(ctx, id, req)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(defect))
	} else {
		fmt.Fprintf(w, "Updated defect %s: %s [%s/%s]\n", defect.ID, defect.Title, defect.Status, defect.Priority)
	}
	return 0
}

func runDelete(ctx context.Context, w io.Writer, a *app.App, id string) int {
	if err := a.Cache.DeleteDefect(ctx, id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	fmt.Fprintf(w, "Deleted defect %s\n", id)
	return 0
}

func runComment(ctx context.Context, w io.Writer, a *app.App, id, content string) int {
	defect, err := a.Cache.AddComment(ctx, id, content)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(defect))
	} else {
		fmt.Fprintf(w, "Added comment to %s (%d comments)\n", defect.ID, len(defect.Comments))
	}
	return 0
}
