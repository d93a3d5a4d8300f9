package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultModel is used for analysis when neither config nor --model sets one.
const DefaultModel = "claude-sonnet-4-20250514"

type Config struct {
	ClaudeRoot string `toml:"claude_root"`
	DBPath     string `toml:"db_path"`
	Model      string `toml:"model"`
	Output     string `toml:"output"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ClaudeRoot: filepath.Join(home, ".claude", "projects"),
		DBPath:     filepath.Join(home, ".config", "trajectory", "trajectory.db"),
		Model:      DefaultModel,
		Output:     "trajectory.md",
	}

	cfgPath := Path(home)
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.ClaudeRoot = expandHome(cfg.ClaudeRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	return cfg, nil
}

// Path returns the config file location for a home directory.
func Path(home string) string {
	return filepath.Join(home, ".config", "trajectory", "config.toml")
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
