package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "trajectory",
		Short:   "Generate decision logs from Claude Code sessions",
		Long: `Trajectory turns a recorded Claude Code session into a condensed decision
log or an ASCII decision-flow diagram, for pasting into PR descriptions.`,
		Version: version,
	}

	rootCmd.AddCommand(genCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
