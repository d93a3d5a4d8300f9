package render

import (
	"fmt"
	"path"
	"strings"

	"github.com/trajectory-cli/trajectory/internal/session"
)

// innerWidth is the usable width inside every box of the flow diagram.
const innerWidth = 40

// maxOutputFiles is how many file rows the OUTPUT box shows before
// collapsing the rest into a "+N more files" line.
const maxOutputFiles = 4

// decisionTypeLabels maps analysis type/provenance values to box labels.
// The bare values are the flow-prompt vocabulary, the rest the decision-log
// provenance vocabulary.
var decisionTypeLabels = map[string]string{
	"directive": "DIRECTIVE",
	"explicit":  "DIRECTIVE",
	"choice":    "CHOICE",
	"chosen":    "CHOICE",
	"implement": "IMPLEMENT",
	"inferred":  "IMPLEMENT",
}

// RenderFlowDiagram renders the session as a fixed-width ASCII diagram:
// intent, then each decision in order, then the changed files, with rejected
// and deferred items in their own blocks. Works with a nil analysis.
func RenderFlowDiagram(data *session.SessionData, analysis *session.AnalysisResult) string {
	var lines []string

	title := "Session Flow"
	if data.GitBranch != "" {
		title = data.GitBranch
	}
	lines = append(lines, fmt.Sprintf("╔══ %s ══╗", title), "")

	if analysis != nil && analysis.Intent != "" {
		appendBox(&lines, "INTENT", []string{FitToWidth(analysis.Intent, innerWidth-2)})
		appendConnector(&lines)
	}

	if analysis != nil {
		for i, d := range analysis.Decisions {
			label := "DECISION"
			text := d.Plain
			if text == "" {
				text = d.Decision
				t := d.Type
				if t == "" {
					t = d.Provenance
				}
				if l, ok := decisionTypeLabels[t]; ok {
					label = l
				}
			}
			appendBox(&lines, label, []string{FitToWidth(text, innerWidth-2)})
			if i < len(analysis.Decisions)-1 {
				appendConnector(&lines)
			}
		}
	}

	if len(data.FileChanges) > 0 {
		appendConnector(&lines)
		appendBox(&lines, "OUTPUT", outputRows(data))
	}

	if analysis != nil && len(analysis.Rejected) > 0 {
		lines = append(lines, "")
		lines = append(lines, "  ╳─ REJECTED "+strings.Repeat("─", innerWidth-11)+"╳")
		for _, item := range analysis.Rejected {
			text := item.Plain
			if text == "" {
				text = item.Alternative
			}
			lines = append(lines, "  ╳ "+PadToWidth(FitToWidth(text, innerWidth-2), innerWidth-2)+" ╳")
		}
		lines = append(lines, "  ╳"+strings.Repeat("─", innerWidth)+"╳")
	}

	if analysis != nil && len(analysis.Deferred) > 0 {
		lines = append(lines, "")
		lines = append(lines, "  ──▷ DEFERRED "+strings.Repeat("─", innerWidth-13)+"▷")
		for _, item := range analysis.Deferred {
			text := item.Plain
			if text == "" {
				text = item.Item
			}
			lines = append(lines, "    ▷ "+PadToWidth(FitToWidth(text, innerWidth-4), innerWidth-4)+" ▷")
		}
		lines = append(lines, "  ──▷"+strings.Repeat("─", innerWidth-2)+"▷")
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("╚══ Session: %s ══╝", shortSessionID(data.SessionID)))

	return strings.Join(lines, "\n")
}

// appendBox draws a labeled box with the given content rows, each padded to
// the inner width.
func appendBox(lines *[]string, label string, rows []string) {
	*lines = append(*lines, "  ┌─ "+label+" "+strings.Repeat("─", innerWidth-len(label)-3)+"┐")
	for _, r := range rows {
		*lines = append(*lines, "  │ "+PadToWidth(r, innerWidth-2)+" │")
	}
	*lines = append(*lines, "  └"+strings.Repeat("─", innerWidth)+"┘")
}

func appendConnector(lines *[]string) {
	pad := strings.Repeat(" ", innerWidth/2)
	*lines = append(*lines, pad+"│", pad+"▼")
}

// outputRows lists changed files by basename with an edit count or "(new)"
// annotation, capped at maxOutputFiles.
func outputRows(data *session.SessionData) []string {
	var files []session.ChangeSummary
	idx := map[string]int{}
	for _, c := range session.SummarizeChanges(data) {
		name := path.Base(c.Path)
		i, ok := idx[name]
		if !ok {
			i = len(files)
			idx[name] = i
			files = append(files, session.ChangeSummary{Path: name})
		}
		files[i].Edits += c.Edits
		files[i].Created = files[i].Created || c.Created
	}

	var rows []string
	for i, f := range files {
		if i == maxOutputFiles {
			break
		}
		label := "(new)"
		if !f.Created {
			plural := ""
			if f.Edits != 1 {
				plural = "s"
			}
			label = fmt.Sprintf("(%d edit%s)", f.Edits, plural)
		}
		rows = append(rows, FitToWidth(f.Path+" "+label, innerWidth-2))
	}

	if len(files) > maxOutputFiles {
		rows = append(rows, FitToWidth(fmt.Sprintf("+%d more files", len(files)-maxOutputFiles), innerWidth-2))
	}

	return rows
}
