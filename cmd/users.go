// ABOUTME: Users command listing site staff
// ABOUTME: Useful for finding assignee IDs when creating or updating defects

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sloobman/ControlSystem/internal/app"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if code := runUsers(ctx, os.Stdout, a); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
}

func runUsers(ctx context.Context, w io.Writer, a *app.App) int {
	users, err := a.Cache.Users(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(users))
		return 0
	}

	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return 0
	}

	fmt.Fprintf(w, "%-36s  %-10s  %-25s  %s\n", "ID", "ROLE", "EMAIL", "NAME")
	for _, u := range users {
		fmt.Fprintf(w, "%-36s  %-10s  %-25s  %s\n", u.ID, u.Role, truncate(u.Email, 25), u.Name)
	}
	return 0
}
