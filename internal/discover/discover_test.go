package discover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLog(t *testing.T, root, projDir, id string, mtime time.Time) string {
	t.Helper()
	dir := filepath.Join(root, projDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, id+".jsonl")
	if err := os.WriteFile(p, []byte(`{"type":"user"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(p, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestProjectDirName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/home/u/proj", "home-u-proj"},
		{"/home/u/my-app", "home-u-my-app"},
		{"relative/path", "relative-path"},
		{"/", ""},
	}
	for _, c := range cases {
		if got := ProjectDirName(c.in); got != c.want {
			t.Errorf("ProjectDirName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFindLatest(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	writeLog(t, root, "home-u-proj", "aaaa1111", now.Add(-time.Hour))
	want := writeLog(t, root, "home-u-proj", "bbbb2222", now)

	got, err := FindLatest(root, "/home/u/proj")
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if got != want {
		t.Fatalf("latest = %q, want %q", got, want)
	}
}

func TestFindLatestNoSessions(t *testing.T) {
	root := t.TempDir()
	if _, err := FindLatest(root, "/home/u/proj"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestResolvePartialID(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	want := writeLog(t, root, "home-u-proj", "abc12345-6789-4abc-8def-0123456789ab", now)
	writeLog(t, root, "home-u-proj", "zzz99999-0000-4abc-8def-0123456789ab", now)

	got, err := Resolve(root, "abc12345", "/home/u/proj")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != want {
		t.Fatalf("resolved %q, want %q", got, want)
	}

	// mid-ID substrings match too
	if got, err := Resolve(root, "zzz9", "/home/u/proj"); err != nil || filepath.Base(got) != "zzz99999-0000-4abc-8def-0123456789ab.jsonl" {
		t.Fatalf("substring resolve = %q, %v", got, err)
	}

	if _, err := Resolve(root, "nomatch", "/home/u/proj"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestProjectDirSubstringMatch(t *testing.T) {
	root := t.TempDir()
	// the on-disk name carries a prefix the dashed path lacks
	want := writeLog(t, root, "x-home-u-proj-y", "abc12345", time.Now())

	got, err := FindLatest(root, "/home/u/proj")
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if got != want {
		t.Fatalf("latest = %q, want %q", got, want)
	}
}

func TestListSortedAndLimited(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	writeLog(t, root, "home-u-proj", "aaaa", now.Add(-2*time.Hour))
	writeLog(t, root, "home-u-proj", "bbbb", now)
	writeLog(t, root, "home-u-proj", "cccc", now.Add(-time.Hour))

	sessions, err := List(root, "/home/u/proj", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("got %d sessions", len(sessions))
	}
	if sessions[0].ID != "bbbb" || sessions[1].ID != "cccc" || sessions[2].ID != "aaaa" {
		t.Fatalf("order = %s, %s, %s", sessions[0].ID, sessions[1].ID, sessions[2].ID)
	}

	limited, err := List(root, "/home/u/proj", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "bbbb" {
		t.Fatalf("limited = %+v", limited)
	}
}

func TestScanRoot(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	writeLog(t, root, "proj-a", "s1", now)
	writeLog(t, root, "proj-b", "s2", now)
	writeLog(t, root, filepath.Join("proj-a", "subagents"), "agent", now)
	writeLog(t, root, "proj-a", "sessions-index", now)
	if err := os.WriteFile(filepath.Join(root, "proj-a", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := ScanRoot(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("scanned %d files, want 2: %+v", len(files), files)
	}

	dirs := map[string]string{}
	for _, f := range files {
		dirs[filepath.Base(f.Path)] = f.ProjectDir
	}
	if dirs["s1.jsonl"] != "proj-a" || dirs["s2.jsonl"] != "proj-b" {
		t.Fatalf("project dirs = %v", dirs)
	}
}

func TestScanRootMissing(t *testing.T) {
	files, err := ScanRoot(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("scan of missing root should not fail: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("files = %+v", files)
	}
}
