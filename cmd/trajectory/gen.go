package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/trajectory-cli/trajectory/internal/analyze"
	"github.com/trajectory-cli/trajectory/internal/config"
	"github.com/trajectory-cli/trajectory/internal/discover"
	"github.com/trajectory-cli/trajectory/internal/render"
	"github.com/trajectory-cli/trajectory/internal/session"
)

func genCmd() *cobra.Command {
	var sessionArg, projectArg, outputArg, modelArg string
	var flow, audit, copyOut, noAnalyze bool

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a decision log from a session",
		Long: `Parses a session log, optionally analyzes it with the Anthropic API, and
writes a markdown decision log (or, with --flow, prints an ASCII decision
flow diagram to stdout). Without ANTHROPIC_API_KEY the output falls back to
heuristics derived from the session itself.`,
		Args: cobra.NoArgs,
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

			sessionPath, err := findSession(cfg.ClaudeRoot, sessionArg, project)
			if err != nil {
				return fmt.Errorf("%w (use 'trajectory list' to see available sessions)", err)
			}

			data, err := session.ParseFile(sessionPath)
			if err != nil {
				return fmt.Errorf("parse session: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Parsed session %s: %d prompts, %d file changes\n",
				shortID(data.SessionID), len(data.UserPrompts), len(data.FileChanges))

			var analysis *session.AnalysisResult
			if !noAnalyze {
				analysis = runAnalysis(cmd, cfg, modelArg, data, flow)
			}

			var out string
			if flow {
				out = render.RenderFlowDiagram(data, analysis)
			} else {
				out = render.RenderDecisionLog(data, analysis, audit)
			}

			if copyOut {
				if err := clipboard.WriteAll(out); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
				} else {
					fmt.Fprintln(os.Stderr, "Copied to clipboard")
				}
			}

			if flow {
				fmt.Println(out)
				return nil
			}

			outPath := outputArg
			if outPath == "" {
				outPath = cfg.Output
			}
			if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionArg, "session", "s", "", "Session ID or path (default: latest)")
	cmd.Flags().StringVarP(&projectArg, "project", "p", "", "Project path (default: current directory)")
	cmd.Flags().StringVarP(&outputArg, "output", "o", "", "Output file (default: trajectory.md)")
	cmd.Flags().BoolVar(&flow, "flow", false, "Output as ASCII flow diagram")
	cmd.Flags().BoolVar(&audit, "audit", false, "Full output with provenance")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy output to clipboard")
	cmd.Flags().BoolVar(&noAnalyze, "no-analyze", false, "Skip the API analysis step")
	cmd.Flags().StringVar(&modelArg, "model", "", "Model for analysis")

	return cmd
}

// findSession resolves the session argument: an explicit path, a full or
// partial ID, or empty for the project's most recent session.
func findSession(claudeRoot, sessionArg, project string) (string, error) {
	switch {
	case sessionArg == "":
		return discover.FindLatest(claudeRoot, project)
	case strings.Contains(sessionArg, "/") || strings.HasSuffix(sessionArg, ".jsonl"):
		if _, err := os.Stat(sessionArg); err != nil {
			return "", discover.ErrNoSession
		}
		return sessionArg, nil
	default:
		return discover.Resolve(claudeRoot, sessionArg, project)
	}
}

// runAnalysis calls the analyzer and degrades to nil on any failure; the
// renderers handle an absent analysis.
func runAnalysis(cmd *cobra.Command, cfg *config.Config, modelArg string, data *session.SessionData, flow bool) *session.AnalysisResult {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "ANTHROPIC_API_KEY not set, skipping analysis")
		return nil
	}

	model := modelArg
	if model == "" {
		model = cfg.Model
	}

	fmt.Fprintln(os.Stderr, "Analyzing session...")
	client := analyze.NewClient(apiKey)

	var analysis *session.AnalysisResult
	var err error
	if flow {
		analysis, err = analyze.ForFlow(cmd.Context(), client, model, data)
	} else {
		analysis, err = analyze.Session(cmd.Context(), client, model, data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis unavailable: %v\n", err)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Extracted %d decisions\n", len(analysis.Decisions))
	return analysis
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
