package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trajectory-cli/trajectory/internal/config"
	"github.com/trajectory-cli/trajectory/internal/discover"
	"github.com/trajectory-cli/trajectory/internal/index"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify the Claude root, cache, and API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			cfgPath := config.Path(home)
			if _, err := os.Stat(cfgPath); err != nil {
				fmt.Printf("  %s (not present, using defaults)\n", cfgPath)
			} else {
				fmt.Printf("  %s (OK)\n", cfgPath)
			}

			fmt.Println("\n=== Claude Root ===")
			checkDir(cfg.ClaudeRoot)

			fmt.Println("\n=== Session Scan ===")
			files, err := discover.ScanRoot(cfg.ClaudeRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				fmt.Printf("  Session files: %d\n", len(files))
			}

			fmt.Println("\n=== Cache ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'trajectory list' to build it)")
			} else {
				db, err := index.OpenDB(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("open db: %w", err)
				}
				defer db.Close()

				count, err := db.SessionCount()
				if err != nil {
					return fmt.Errorf("count sessions: %w", err)
				}
				fmt.Printf("  Sessions: %d\n", count)
			}

			fmt.Println("\n=== Analysis ===")
			fmt.Printf("  Model: %s\n", cfg.Model)
			if os.Getenv("ANTHROPIC_API_KEY") == "" {
				fmt.Println("  ANTHROPIC_API_KEY: NOT SET (gen will skip analysis)")
			} else {
				fmt.Println("  ANTHROPIC_API_KEY: set")
			}

			return nil
		},
	}
}

func checkDir(path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s (NOT FOUND)\n", path)
	} else if !info.IsDir() {
		fmt.Printf("  %s (NOT A DIRECTORY)\n", path)
	} else {
		fmt.Printf("  %s (OK)\n", path)
	}
}
