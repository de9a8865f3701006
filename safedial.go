// Package safedial counts how often a rotating dial reaches zero.
//
// Example usage:
//
//	cmds, err := commandlog.ReadAll(ctx, "input.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	final, err := safedial.Replay(safedial.DefaultSize, safedial.DefaultStart, cmds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(final.Position, final.ZeroCount)
package safedial

import (
	"context"

	"github.com/bft-labs/safedial/pkg/conformance"
	"github.com/bft-labs/safedial/pkg/dial"
)

// Command is a single rotation.
type Command = dial.Command

// State is the dial position together with its counters.
type State = dial.State

// Direction is the sense of a rotation.
type Direction = dial.Direction

// Result is the outcome of a conformance run.
type Result = conformance.Result

const (
	Left  = dial.Left
	Right = dial.Right

	// DefaultSize is the number of positions on a standard dial.
	DefaultSize = dial.DefaultSize
	// DefaultStart is the position after reset.
	DefaultStart = dial.DefaultStart
)

// Compute returns the position after cmd and how many times it passed
// through or stopped at zero on the way.
func Compute(size, position int64, cmd Command) (int64, uint64, error) {
	return dial.Compute(size, position, cmd)
}

// Replay applies cmds in order, starting from initial, and returns the
// final state. It stops at the first invalid command.
func Replay(size, initial int64, cmds []Command) (State, error) {
	e := dial.Engine{Size: size}
	s, err := e.Reset(initial)
	if err != nil {
		return State{}, err
	}
	for _, c := range cmds {
		if s, err = e.Apply(s, c); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Verify replays cmds through the closed-form engine and the clocked model
// side by side and reports the first divergence, if any.
func Verify(ctx context.Context, size, initial int64, cmds []Command) (Result, error) {
	return conformance.New(size).Compare(ctx, cmds, initial)
}
