// ABOUTME: Entry point for the defectctl CLI
// ABOUTME: Command-line and TUI client for the ControlSystem defect-tracking API

package main

import (
	"fmt"
	"os"

	"github.com/sloobman/ControlSystem/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
