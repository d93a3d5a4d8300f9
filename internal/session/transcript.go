package session

import (
	"fmt"
	"strings"
)

const (
	// DefaultTranscriptLimit bounds the transcript handed to analysis.
	DefaultTranscriptLimit = 50000

	// TruncationMarker is emitted once when the budget runs out.
	TruncationMarker = "... [transcript truncated] ..."

	maxTurnText    = 2000
	maxToolSummary = 5
)

// BuildTranscript renders the conversation as USER:/ASSISTANT: prefixed
// entries for the analysis step. In code-focused mode, noise user turns are
// skipped and tool summaries are limited to code-relevant tools. The result
// never exceeds maxLength plus one truncation marker line, and no partial
// entry is ever emitted.
func BuildTranscript(data *SessionData, maxLength int, codeFocused bool) string {
	if maxLength <= 0 {
		maxLength = DefaultTranscriptLimit
	}

	var entries []string
	total := 0

	for _, turn := range data.Conversation {
		if codeFocused && turn.Role == "user" && IsNoiseMessage(turn.Text) {
			continue
		}

		prefix := "ASSISTANT: "
		if turn.Role == "user" {
			prefix = "USER: "
		}

		text := ClipRunes(turn.Text, maxTurnText)

		if turn.Role == "assistant" && len(turn.ToolCalls) > 0 {
			relevant := turn.ToolCalls
			if codeFocused {
				relevant = filterCodeRelevant(turn.ToolCalls)
			}
			if len(relevant) > 0 {
				summary := summarizeToolCalls(relevant)
				if text != "" {
					text = text + "\n[Tools: " + summary + "]"
				} else {
					text = "[Tools: " + summary + "]"
				}
			} else if text == "" {
				continue
			}
		}

		if text == "" {
			continue
		}

		// +1 accounts for the joining newline, so the budget holds for
		// the final string, not just the sum of entries.
		entry := prefix + text + "\n"
		if total+len(entry)+1 > maxLength {
			entries = append(entries, TruncationMarker)
			break
		}
		entries = append(entries, entry)
		total += len(entry) + 1
	}

	return strings.Join(entries, "\n")
}

// ClipRunes cuts s to at most n runes. Cuts land on rune boundaries, never
// inside a multibyte character.
func ClipRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func filterCodeRelevant(calls []ToolCall) []ToolCall {
	var out []ToolCall
	for _, tc := range calls {
		if IsCodeRelevantTool(tc) {
			out = append(out, tc)
		}
	}
	return out
}

func summarizeToolCalls(calls []ToolCall) string {
	shown := calls
	if len(shown) > maxToolSummary {
		shown = shown[:maxToolSummary]
	}

	parts := make([]string, 0, len(shown))
	for _, tc := range shown {
		parts = append(parts, fmt.Sprintf("%s(%s)", tc.Name, tc.PrimaryInput()))
	}

	summary := strings.Join(parts, ", ")
	if len(calls) > maxToolSummary {
		summary += fmt.Sprintf(", ... +%d more", len(calls)-maxToolSummary)
	}
	return summary
}
