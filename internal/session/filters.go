package session

import "strings"

// Short confirmations that carry no signal.
var noisePhrases = map[string]struct{}{
	"yes": {}, "no": {}, "ok": {}, "okay": {}, "sure": {}, "thanks": {},
	"thank you": {}, "y": {}, "n": {}, "yep": {}, "nope": {}, "got it": {},
	"sounds good": {}, "go ahead": {}, "do it": {}, "proceed": {},
	"continue": {}, "next": {}, "done": {}, "good": {},
}

// Version-control commands excluded from code-focused analysis.
var gitCommandPrefixes = []string{
	"git ", "git push", "git commit", "git add", "git checkout",
	"git rebase", "git fetch", "git status", "git diff", "git log",
	"git merge", "git pull", "git reset", "git stash", "git branch",
}

// Package-manager and build-tool commands excluded as process noise.
var processCommandPrefixes = []string{
	"yarn ", "npm ", "pnpm ", "pip ", "brew ", "cargo ",
	"go mod", "bundle ", "composer ",
}

// IsNoiseMessage reports whether a user message is a short confirmation or a
// system notification. It only affects transcript assembly; the session model
// keeps every turn.
func IsNoiseMessage(text string) bool {
	if text == "" {
		return true
	}

	lower := strings.TrimSpace(strings.ToLower(text))

	if len(lower) < 20 {
		if _, ok := noisePhrases[lower]; ok {
			return true
		}
	}

	if strings.HasPrefix(lower, "<task-notification") || strings.HasPrefix(lower, "<command-") {
		return true
	}

	return false
}

// IsSystemNoise reports whether text is system-generated boilerplate. Used
// only when deriving a heuristic intent without an analysis result; its rules
// deliberately differ from IsNoiseMessage. Short confirmation phrases are
// human speech, not system output, so they are exempt from the length rule.
func IsSystemNoise(text string) bool {
	if text == "" {
		return true
	}

	if strings.HasPrefix(text, "<command-") ||
		strings.HasPrefix(text, "<task-") ||
		strings.HasPrefix(text, "Base directory for this skill") ||
		strings.HasPrefix(text, "# ") {
		return true
	}

	trimmed := strings.TrimSpace(text)
	if _, ok := noisePhrases[strings.ToLower(trimmed)]; ok {
		return false
	}
	return len(trimmed) < 10
}

// IsCodeRelevantTool reports whether a tool call bears on code decisions.
// Edit/write/read/search tools always qualify; shell commands qualify unless
// they are version-control or package-manager invocations; everything else is
// excluded.
func IsCodeRelevantTool(tc ToolCall) bool {
	switch tc.Name {
	case "Edit", "Write", "Read", "Grep", "Glob":
		return true
	case "Bash":
		cmd := strings.ToLower(strings.TrimSpace(tc.InputString("command")))
		for _, p := range gitCommandPrefixes {
			if strings.HasPrefix(cmd, p) {
				return false
			}
		}
		for _, p := range processCommandPrefixes {
			if strings.HasPrefix(cmd, p) {
				return false
			}
		}
		return true
	}
	return false
}
