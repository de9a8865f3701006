package conformance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/safedial/pkg/dial"
)

// ErrConformanceMismatch is wrapped by Mismatch.Err.
var ErrConformanceMismatch = errors.New("conformance: trajectories diverged")

// Result is the outcome of one comparison run.
type Result struct {
	// Passed is true when every command produced identical states.
	Passed bool

	Initial int64

	// Final is the last state both arms agreed on.
	Final dial.State

	// Processed counts the commands both arms agreed on.
	Processed int

	// Mismatch is set when Passed is false.
	Mismatch *Mismatch

	Stats Stats
}

// Mismatch describes the first command after which two arms disagreed.
type Mismatch struct {
	// Index is the zero-based position of the command in the sequence.
	Index   int
	Command dial.Command

	// Before is the agreed state just before Command.
	Before dial.State

	// Arm names the implementation that disagreed with the reference.
	Arm       string
	Reference dial.State
	Candidate dial.State

	// History holds the commands preceding Command, oldest first.
	History []dial.Command
}

// Err returns the mismatch as an error wrapping ErrConformanceMismatch.
func (m *Mismatch) Err() error {
	return fmt.Errorf("%w: %s", ErrConformanceMismatch, m.Summary())
}

// Summary is a one-line description of the mismatch.
func (m *Mismatch) Summary() string {
	return fmt.Sprintf("rotation %d (%s from position %d): reference %s, %s %s",
		m.Index+1, m.Command, m.Before.Position, m.Reference, m.Arm, m.Candidate)
}

// PositionDiff is candidate minus reference position.
func (m *Mismatch) PositionDiff() int64 {
	return m.Candidate.Position - m.Reference.Position
}

// ZeroCountDiff is candidate minus reference zero count.
func (m *Mismatch) ZeroCountDiff() int64 {
	return int64(m.Candidate.ZeroCount) - int64(m.Reference.ZeroCount)
}

// HistoryString renders the preceding commands with their one-based indexes.
func (m *Mismatch) HistoryString() string {
	parts := make([]string, len(m.History))
	first := m.Index - len(m.History) + 1
	for i, c := range m.History {
		parts[i] = fmt.Sprintf("%d:%s", first+i, c)
	}
	return strings.Join(parts, " ")
}

// Stats reports throughput. It is informational only.
type Stats struct {
	Commands int
	Elapsed  time.Duration

	// Cycles is the number of clock edges the candidate spent on commands,
	// or zero if the candidate is not clocked.
	Cycles uint64
}

// CommandsPerSecond returns wall-clock throughput.
func (s Stats) CommandsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Commands) / s.Elapsed.Seconds()
}

// CommandsPerCycle returns simulated throughput; a one-command-per-edge
// design reports 1.
func (s Stats) CommandsPerCycle() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Commands) / float64(s.Cycles)
}
