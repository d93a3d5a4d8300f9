package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

const sampleLog = `{"type":"other","gitBranch":"feature/x","cwd":"/home/u/proj","timestamp":"2026-01-01T10:00:00Z"}
{"type":"user","message":{"content":"add retry logic to the client"},"timestamp":"2026-01-01T10:01:00Z"}
{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Write","input":{"file_path":"/home/u/proj/client.py","content":"x"}}]},"timestamp":"2026-01-01T10:02:00Z"}
`

func writeSession(t *testing.T, root, projDir, id, content string) string {
	t.Helper()
	dir := filepath.Join(root, projDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, id+".jsonl")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRefresh(t *testing.T) {
	root := t.TempDir()
	db := openTestDB(t)
	path := writeSession(t, root, "home-u-proj", "abc12345", sampleLog)

	stats, err := Refresh(db, root)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if stats.Scanned != 1 || stats.Updated != 1 || stats.Skipped != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	rows, err := db.ListSessions(ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	row := rows[0]
	if row.SessionID != "abc12345" || row.ProjectDir != "home-u-proj" {
		t.Fatalf("row = %+v", row)
	}
	if row.Branch != "feature/x" || row.Summary != "add retry logic to the client" {
		t.Fatalf("row = %+v", row)
	}
	if row.StartedAt != "2026-01-01T10:00:00Z" || row.UpdatedAt != "2026-01-01T10:02:00Z" {
		t.Fatalf("row = %+v", row)
	}
	if row.Prompts != 1 || row.Changes != 1 {
		t.Fatalf("row = %+v", row)
	}

	// unchanged file skips the re-parse
	stats, err = Refresh(db, root)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if stats.Skipped != 1 || stats.Updated != 0 {
		t.Fatalf("second refresh stats = %+v", stats)
	}

	// touching the file with new content re-indexes it
	if err := os.WriteFile(path, []byte(sampleLog+`{"type":"other","gitBranch":"main"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	stats, err = Refresh(db, root)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if stats.Updated != 1 {
		t.Fatalf("third refresh stats = %+v", stats)
	}
	rows, _ = db.ListSessions(ListOptions{})
	if rows[0].Branch != "main" {
		t.Fatalf("branch not re-derived: %+v", rows[0])
	}

	// deleting the file prunes the row
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	stats, err = Refresh(db, root)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if stats.Pruned != 1 {
		t.Fatalf("prune stats = %+v", stats)
	}
	if n, _ := db.SessionCount(); n != 0 {
		t.Fatalf("count = %d after prune", n)
	}
}

func TestSummarizeCutsOnRuneBoundaries(t *testing.T) {
	root := t.TempDir()
	db := openTestDB(t)
	writeSession(t, root, "proj", "s1",
		`{"type":"user","message":{"content":"`+strings.Repeat("日", 250)+`"}}`+"\n")

	if _, err := Refresh(db, root); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	rows, err := db.ListSessions(ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !utf8.ValidString(rows[0].Summary) {
		t.Fatalf("summary contains a split rune: %q", rows[0].Summary)
	}
	if got := utf8.RuneCountInString(rows[0].Summary); got != 200 {
		t.Fatalf("summary is %d runes, want 200", got)
	}
}

func TestSummarizeFlattensNewlines(t *testing.T) {
	root := t.TempDir()
	db := openTestDB(t)
	writeSession(t, root, "proj", "s1",
		`{"type":"user","message":{"content":"first line of the prompt\nsecond line"}}`+"\n")

	if _, err := Refresh(db, root); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	rows, err := db.ListSessions(ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Summary != "first line of the prompt second line" {
		t.Fatalf("summary = %q", rows[0].Summary)
	}
}
