// ABOUTME: Create command for registering a new defect
// ABOUTME: Flag-driven so it can be scripted from CI or shell aliases

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

var (
	createTitle       string
	createDescription string
	createLocation    string
	createPriority    string
	createAssignee    string
	createPhotos      []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new defect",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		req := api.CreateDefectRequest{
			Title:        createTitle,
			Description:  createDescription,
			Location:     createLocation,
			Priority:     api.Priority(createPriority),
			AssignedToID: createAssignee,
			Photos:       createPhotos,
		}
		if code := runCreate(ctx, os.Stdout, a, req); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "Short summary of the defect")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Detailed description")
	createCmd.Flags().StringVar(&createLocation, "location", "", "Where on site the defect is")
	createCmd.Flags().StringVar(&createPriority, "priority", "medium", "Priority: low, medium, high, or critical")
	createCmd.Flags().StringVar(&createAssignee, "assignee", "", "User ID to assign the defect to")
	createCmd.Flags().StringArrayVar(&createPhotos, "photo", nil, "Photo URL (repeatable)")
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagRequired("description")
	createCmd.MarkFlagRequired("location")

	rootCmd.AddCommand(createCmd)
}

// runCreate creates the defect and returns exit code
func runCreate(ctx context.Context, w io.Writer, a *app.App, req api.CreateDefectRequest) int {
	defect, err := a.Cache.CreateDefect(ctx, req)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(defect))
	} else {
		fmt.Fprintf(w, "Created defect %s: %s [%s/%s]\n", defect.ID, defect.Title, defect.Status, defect.Priority)
	}
	return 0
}
