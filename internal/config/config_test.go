package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ClaudeRoot != filepath.Join(home, ".claude", "projects") {
		t.Fatalf("claude_root = %q", cfg.ClaudeRoot)
	}
	if cfg.Model != DefaultModel {
		t.Fatalf("model = %q", cfg.Model)
	}
	if cfg.Output != "trajectory.md" {
		t.Fatalf("output = %q", cfg.Output)
	}
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgPath := Path(home)
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatal(err)
	}
	body := `claude_root = "~/logs"
model = "claude-opus-4-20250514"
`
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ClaudeRoot != filepath.Join(home, "logs") {
		t.Fatalf("claude_root = %q, want ~ expanded", cfg.ClaudeRoot)
	}
	if cfg.Model != "claude-opus-4-20250514" {
		t.Fatalf("model = %q", cfg.Model)
	}
	// unset keys keep their defaults
	if cfg.Output != "trajectory.md" {
		t.Fatalf("output = %q", cfg.Output)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgPath := Path(home)
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("model = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid config")
	}
}
