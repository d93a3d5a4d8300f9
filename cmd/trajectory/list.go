package main

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trajectory-cli/trajectory/internal/config"
	"github.com/trajectory-cli/trajectory/internal/discover"
	"github.com/trajectory-cli/trajectory/internal/index"
	"github.com/trajectory-cli/trajectory/internal/tui"
)

func listCmd() *cobra.Command {
	var projectArg string
	var limit int
	var all, plain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available sessions",
		Long: `Lists cached sessions for the current project, newest first. On a terminal
this opens an interactive picker with a decision-log preview; selecting a
session copies its ID to the clipboard. Piped output is a plain table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := index.Refresh(db, cfg.ClaudeRoot); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: refresh failed: %v\n", err)
			}

			opts := index.ListOptions{Limit: limit}
			if !all {
				project := projectArg
				if project == "" {
					if project, err = os.Getwd(); err != nil {
						return err
					}
				}
				opts.ProjectDir = discover.ProjectDirName(project)
			}

			if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
				choice, err := tui.Run(db, opts)
				if err != nil {
					return err
				}
				if choice != nil {
					if err := clipboard.WriteAll(choice.SessionID); err == nil {
						fmt.Fprintf(os.Stderr, "Copied session ID to clipboard\n")
					}
					fmt.Println(choice.SessionID)
				}
				return nil
			}

			rows, err := db.ListSessions(opts)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(os.Stderr, "No sessions found")
				return nil
			}

			for _, r := range rows {
				fmt.Printf("%s\t%s\t%.1fKB\t%s\t%s\n",
					shortID(r.SessionID), r.UpdatedAt, float64(r.Size)/1024, r.Branch, r.Summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectArg, "project", "p", "", "Project path (default: current directory)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Max results (0 = no limit)")
	cmd.Flags().BoolVar(&all, "all", false, "List sessions for every project")
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain table output (no TUI)")

	return cmd
}
