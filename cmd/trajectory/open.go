package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trajectory-cli/trajectory/internal/config"
	"github.com/trajectory-cli/trajectory/internal/discover"
	"github.com/trajectory-cli/trajectory/internal/open"
)

func openCmd() *cobra.Command {
	var projectArg string

	cmd := &cobra.Command{
		Use:   "open <session-id>",
		Short: "Open a session log in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			project := projectArg
			if project == "" {
				if project, err = os.Getwd(); err != nil {
					return err
				}
			}

			path, err := discover.Resolve(cfg.ClaudeRoot, args[0], project)
			if err != nil {
				return err
			}
			return open.File(path)
		},
	}

	cmd.Flags().StringVarP(&projectArg, "project", "p", "", "Project path (default: current directory)")

	return cmd
}
