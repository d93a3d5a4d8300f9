package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/trajectory-cli/trajectory/internal/session"
)

const (
	maxIntentLen  = 200
	skimDecisions = 2
	shortIDLen    = 8
)

// RenderDecisionLog renders a session as a markdown decision log. The default
// output is a 15-second skim (intent plus top decisions); audit mode adds
// provenance, changed files, rejected alternatives, assumptions, and deferred
// items. A nil analysis yields a valid document with heuristic intent only.
func RenderDecisionLog(data *session.SessionData, analysis *session.AnalysisResult, audit bool) string {
	var lines []string

	if data.GitBranch != "" {
		lines = append(lines, "# "+data.GitBranch)
	} else {
		lines = append(lines, "# Decision Log")
	}
	lines = append(lines, "")

	renderIntent(&lines, data, analysis)

	if analysis != nil && len(analysis.Decisions) > 0 {
		renderDecisions(&lines, analysis, audit)
	}

	if audit {
		renderChanges(&lines, data)
		if analysis != nil && len(analysis.Rejected) > 0 {
			renderRejected(&lines, analysis)
		}
		if analysis != nil && len(analysis.Assumptions) > 0 {
			renderAssumptions(&lines, analysis)
		}
		if analysis != nil && len(analysis.Deferred) > 0 {
			renderDeferred(&lines, analysis)
		}
	}

	lines = append(lines, "---")
	id := data.SessionID
	if !audit {
		id = shortSessionID(id)
	}
	lines = append(lines, fmt.Sprintf("_Session: %s_", id))

	return strings.Join(lines, "\n")
}

func renderIntent(lines *[]string, data *session.SessionData, analysis *session.AnalysisResult) {
	switch {
	case analysis != nil && analysis.Intent != "":
		*lines = append(*lines, "> "+analysis.Intent)
	case len(data.UserPrompts) > 0:
		primary := ""
		for _, p := range data.UserPrompts {
			if !session.IsSystemNoise(p.Text) {
				primary = p.Text
				break
			}
		}
		if primary == "" {
			primary = data.UserPrompts[0].Text
		}
		if utf8.RuneCountInString(primary) > maxIntentLen {
			primary = session.ClipRunes(primary, maxIntentLen) + ellipsis
		}
		*lines = append(*lines, "> "+primary)
	}
	*lines = append(*lines, "")
}

func renderDecisions(lines *[]string, analysis *session.AnalysisResult, audit bool) {
	*lines = append(*lines, "**Decisions:**")

	max := len(analysis.Decisions)
	if !audit && max > skimDecisions {
		max = skimDecisions
	}

	for _, item := range analysis.Decisions[:max] {
		if item.Plain != "" {
			*lines = append(*lines, "- "+item.Plain)
			continue
		}

		*lines = append(*lines, "- "+item.Decision)
		if !audit {
			continue
		}
		if item.Reasoning != "" {
			*lines = append(*lines, "  "+item.Reasoning)
		}
		if item.Provenance != "" || item.Context != "" {
			var badges []string
			if item.Provenance != "" {
				badges = append(badges, fmt.Sprintf("`[%s]`", item.Provenance))
			}
			if item.Context != "" {
				badges = append(badges, fmt.Sprintf("_%s_", item.Context))
			}
			*lines = append(*lines, "  "+strings.Join(badges, " "))
		}
	}

	if !audit && len(analysis.Decisions) > skimDecisions {
		remaining := len(analysis.Decisions) - skimDecisions
		*lines = append(*lines, fmt.Sprintf("  ... +%d more (--audit)", remaining))
	}

	*lines = append(*lines, "")
}

func renderChanges(lines *[]string, data *session.SessionData) {
	if len(data.FileChanges) == 0 {
		return
	}

	*lines = append(*lines, "**Changed:**")
	for _, c := range session.SummarizeChanges(data) {
		if c.Created {
			*lines = append(*lines, fmt.Sprintf("  `%s` (new)", c.Path))
		} else {
			*lines = append(*lines, fmt.Sprintf("  `%s`", c.Path))
		}
	}
	*lines = append(*lines, "")
}

func renderRejected(lines *[]string, analysis *session.AnalysisResult) {
	*lines = append(*lines, "**Rejected:**")
	for _, item := range analysis.Rejected {
		if item.Plain != "" {
			*lines = append(*lines, "- "+item.Plain)
			continue
		}
		*lines = append(*lines, "- "+item.Alternative)
		if item.Reason != "" {
			*lines = append(*lines, "  "+item.Reason)
		}
		if item.Context != "" {
			*lines = append(*lines, fmt.Sprintf("  _%s_", item.Context))
		}
	}
	*lines = append(*lines, "")
}

func renderAssumptions(lines *[]string, analysis *session.AnalysisResult) {
	*lines = append(*lines, "**Assumptions:**")
	for _, item := range analysis.Assumptions {
		if item.Plain != "" {
			*lines = append(*lines, "- "+item.Plain)
			continue
		}
		line := "- " + item.Assumption
		if item.Provenance != "" {
			line += fmt.Sprintf(" `[%s]`", item.Provenance)
		}
		if item.Context != "" {
			line += fmt.Sprintf(" _%s_", item.Context)
		}
		*lines = append(*lines, line)
	}
	*lines = append(*lines, "")
}

func renderDeferred(lines *[]string, analysis *session.AnalysisResult) {
	*lines = append(*lines, "**Deferred:**")
	for _, item := range analysis.Deferred {
		if item.Plain != "" {
			*lines = append(*lines, "- "+item.Plain)
			continue
		}
		line := "- " + item.Item
		if item.Context != "" {
			line += fmt.Sprintf(" _%s_", item.Context)
		}
		*lines = append(*lines, line)
	}
	*lines = append(*lines, "")
}

func shortSessionID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
