package tui

import (
	"strings"
	"testing"

	"github.com/trajectory-cli/trajectory/internal/index"
)

func TestFormatSessionLines(t *testing.T) {
	row := index.SessionRow{
		SessionID: "abc12345-6789-4abc-8def-0123456789ab",
		UpdatedAt: "2026-01-27T15:04:05Z",
		Branch:    "feature/x",
		Summary:   "add retry logic\nto the client",
	}

	lines := formatSessionLines(row, 60, false)
	if len(lines) != linesPerItem {
		t.Fatalf("got %d lines", len(lines))
	}

	if !strings.Contains(lines[0], "abc12345") {
		t.Errorf("line 1 missing short id: %q", lines[0])
	}
	if strings.Contains(lines[0], "abc12345-") {
		t.Errorf("line 1 should use the 8-char id: %q", lines[0])
	}
	if !strings.Contains(lines[0], "01-27") {
		t.Errorf("line 1 missing MM-DD date: %q", lines[0])
	}
	if !strings.Contains(lines[1], "add retry logic to the client") {
		t.Errorf("line 2 should flatten the summary: %q", lines[1])
	}
}

func TestFormatSessionLinesSelected(t *testing.T) {
	row := index.SessionRow{SessionID: "abc12345", UpdatedAt: "2026-01-27T15:04:05Z"}

	selected := formatSessionLines(row, 60, true)
	if !strings.Contains(selected[0], ">") {
		t.Errorf("selected row missing marker: %q", selected[0])
	}

	plain := formatSessionLines(row, 60, false)
	if strings.Contains(plain[0], ">") {
		t.Errorf("unselected row has marker: %q", plain[0])
	}
}

func TestFormatSessionLinesNarrowWidth(t *testing.T) {
	row := index.SessionRow{
		SessionID: "abc12345",
		UpdatedAt: "2026-01-27T15:04:05Z",
		Branch:    strings.Repeat("long-branch-name/", 5),
		Summary:   strings.Repeat("words ", 40),
	}

	// must not panic or emit negative-width content
	lines := formatSessionLines(row, 10, false)
	if len(lines) != linesPerItem {
		t.Fatalf("got %d lines", len(lines))
	}
}
