package cliconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bft-labs/safedial/pkg/commandlog"
	"github.com/bft-labs/safedial/pkg/conformance"
	"github.com/bft-labs/safedial/pkg/dial"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("safedial: invalid configuration")

// Config holds CLI configuration for safedial.
type Config struct {
	InputPath string

	DialSize      int64
	StartPosition int64

	ProgressEvery int
	UnitStepLimit int64
	HistoryDepth  int
	ResetCycles   int

	StateDir string
	Resume   bool

	LogLevel string
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		DialSize:      dial.DefaultSize,
		StartPosition: dial.DefaultStart,
		ProgressEvery: conformance.DefaultProgressEvery,
		UnitStepLimit: conformance.DefaultUnitStepLimit,
		HistoryDepth:  conformance.DefaultHistoryDepth,
		ResetCycles:   dial.DefaultResetCycles,
		LogLevel:      "info",
		Debounce:      commandlog.DefaultDebounce,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input is required", ErrInvalidConfig)
	}
	if c.DialSize <= 0 {
		return fmt.Errorf("%w: dial size must be positive, got %d", ErrInvalidConfig, c.DialSize)
	}
	if c.StartPosition < 0 || c.StartPosition >= c.DialSize {
		return fmt.Errorf("%w: %w: start %d not in [0, %d)",
			ErrInvalidConfig, dial.ErrInvalidInitialPosition, c.StartPosition, c.DialSize)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("%w: progress interval must not be negative", ErrInvalidConfig)
	}
	if c.UnitStepLimit < 0 {
		return fmt.Errorf("%w: unit-step limit must not be negative", ErrInvalidConfig)
	}
	if c.HistoryDepth < 0 {
		return fmt.Errorf("%w: history depth must not be negative", ErrInvalidConfig)
	}
	if c.ResetCycles < 1 {
		return fmt.Errorf("%w: reset cycles must be at least 1", ErrInvalidConfig)
	}
	if c.Debounce <= 0 {
		c.Debounce = commandlog.DefaultDebounce
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	// resuming needs somewhere to keep the checkpoint
	if c.Resume && c.StateDir == "" {
		c.StateDir = filepath.Join(filepath.Dir(c.InputPath), ".safedial")
	}
	return nil
}

// configSetter applies values only for flags the user did not set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt64 sets dst from a pointer so that an explicit zero is honoured.
func (s *configSetter) setInt64(flag string, value *int64, dst *int64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setDurationValue(flag string, value *time.Duration, dst *time.Duration) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}
