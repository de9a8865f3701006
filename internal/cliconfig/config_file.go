package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config for TOML. Numbers are pointers because zero is a
// meaningful value for several of them, and durations are strings.
type FileConfig struct {
	InputPath     string `toml:"input"`
	DialSize      *int64 `toml:"dial_size"`
	StartPosition *int64 `toml:"start_position"`
	ProgressEvery *int   `toml:"progress_every"`
	UnitStepLimit *int64 `toml:"unit_step_limit"`
	HistoryDepth  *int   `toml:"history_depth"`
	ResetCycles   *int   `toml:"reset_cycles"`
	StateDir      string `toml:"state_dir"`
	Resume        *bool  `toml:"resume"`
	LogLevel      string `toml:"log_level"`
	Debounce      string `toml:"debounce"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.safedial/config.toml, or "" if there is no
// home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".safedial", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("input", fc.InputPath, &cfg.InputPath)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt64("dial-size", fc.DialSize, &cfg.DialSize)
	s.setInt64("start", fc.StartPosition, &cfg.StartPosition)
	s.setInt64("unit-step-limit", fc.UnitStepLimit, &cfg.UnitStepLimit)
	s.setInt("progress", fc.ProgressEvery, &cfg.ProgressEvery)
	s.setInt("history", fc.HistoryDepth, &cfg.HistoryDepth)
	s.setInt("reset-cycles", fc.ResetCycles, &cfg.ResetCycles)
	s.setBool("resume", fc.Resume, &cfg.Resume)

	return s.setDuration("debounce", fc.Debounce, &cfg.Debounce)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
