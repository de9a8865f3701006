package cliconfig

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable safedial reads.
const EnvPrefix = "SAFEDIAL_"

// EnvConfig mirrors Config for the environment. Like FileConfig, numbers are
// pointers so that an unset variable stays nil while an explicit zero applies.
type EnvConfig struct {
	InputPath     string         `env:"INPUT"`
	DialSize      *int64         `env:"DIAL_SIZE"`
	StartPosition *int64         `env:"START_POSITION"`
	ProgressEvery *int           `env:"PROGRESS_EVERY"`
	UnitStepLimit *int64         `env:"UNIT_STEP_LIMIT"`
	HistoryDepth  *int           `env:"HISTORY_DEPTH"`
	ResetCycles   *int           `env:"RESET_CYCLES"`
	StateDir      string         `env:"STATE_DIR"`
	Resume        *bool          `env:"RESUME"`
	LogLevel      string         `env:"LOG_LEVEL"`
	Debounce      *time.Duration `env:"DEBOUNCE"`
}

// LoadEnvConfig reads SAFEDIAL_* variables. A value that does not parse as
// its field's type is an error.
func LoadEnvConfig() (EnvConfig, error) {
	var ec EnvConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: EnvPrefix}); err != nil {
		return ec, fmt.Errorf("parse env: %w", err)
	}
	return ec, nil
}

// ApplyEnvConfig applies configuration from environment variables (SAFEDIAL_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	ec, err := LoadEnvConfig()
	if err != nil {
		return err
	}
	s := newConfigSetter(changed)

	s.setString("input", ec.InputPath, &cfg.InputPath)
	s.setString("state-dir", ec.StateDir, &cfg.StateDir)
	s.setString("log-level", ec.LogLevel, &cfg.LogLevel)

	s.setInt64("dial-size", ec.DialSize, &cfg.DialSize)
	s.setInt64("start", ec.StartPosition, &cfg.StartPosition)
	s.setInt64("unit-step-limit", ec.UnitStepLimit, &cfg.UnitStepLimit)
	s.setInt("progress", ec.ProgressEvery, &cfg.ProgressEvery)
	s.setInt("history", ec.HistoryDepth, &cfg.HistoryDepth)
	s.setInt("reset-cycles", ec.ResetCycles, &cfg.ResetCycles)
	s.setBool("resume", ec.Resume, &cfg.Resume)
	s.setDurationValue("debounce", ec.Debounce, &cfg.Debounce)
	return nil
}
