// ABOUTME: Auth commands for defectctl: login, register, logout, whoami
// ABOUTME: Persist or clear the local session via the session store

package cmd

import (
	"context"
	"encoding/json"
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
	loginEmail    string
	loginPassword string

	registerEmail    string
	registerPassword string
	registerName     string
	registerRole     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend and store the session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if code := runLogin(ctx, os.Stdout, a, loginEmail, loginPassword); code != 0 {
			os.Exit(code)
		}
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the backend and store the session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		code := runRegister(ctx, os.Stdout, a, registerEmail, registerPassword, registerName, registerRole)
		if code != 0 {
			os.Exit(code)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if code := runLogout(os.Stdout, a); code != 0 {
			os.Exit(code)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if code := runWhoami(os.Stdout, a); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password")
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerRole, "role", "engineer", "Role: engineer, foreman, or manager")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// runLogin executes the login and returns exit code
func runLogin(ctx context.Context, w io.Writer, a *app.App, email, password string) int {
	auth, err := a.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(auth.User))
	} else {
		fmt.Fprintf(w, "Logged in as %s <%s> (%s)\n", auth.User.Name, auth.User.Email, auth.User.Role)
	}
	return 0
}

// runRegister executes the registration and returns exit code
func runRegister(ctx context.Context, w io.Writer, a *app.App, email, password, name, role string) int {
	req := api.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     api.Role(role),
	}
	auth, err := a.Register(ctx, req)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(auth.User))
	} else {
		fmt.Fprintf(w, "Registered and logged in as %s <%s> (%s)\n", auth.User.Name, auth.User.Email, auth.User.Role)
	}
	return 0
}

func runLogout(w io.Writer, a *app.App) int {
	if err := a.Logout(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	fmt.Fprintln(w, "Logged out.")
	return 0
}

func runWhoami(w io.Writer, a *app.App) int {
	user := a.Session.Current()
	if user == nil {
		fmt.Fprintln(w, "Not logged in.")
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, marshalJSON(user))
	} else {
		fmt.Fprintf(w, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	}
	return 0
}

// marshalJSON formats a value as indented JSON for --json output
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
