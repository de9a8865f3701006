// Package dial models a circular position counter driven by rotation commands.
//
// A dial has Size discrete positions, 0 through Size-1. A Left rotation moves
// toward lower numbers and wraps from 0 to Size-1; a Right rotation moves
// toward higher numbers and wraps from Size-1 to 0. Every time the dial
// arrives at position 0, including arrivals in the middle of a rotation that
// spans several revolutions, the zero count grows by one.
//
// # Components
//
//   - [Compute]: closed-form position and zero-visit count for one command
//   - [UnitStep]: naive one-unit-at-a-time simulation used for cross-checks
//   - [Engine]: pure reset/apply over an explicit [State]
//   - [Reference]: a [Stepper] that threads a [State] through an [Engine]
//   - [Clocked]: a cycle-accurate register model that latches one command
//     per rising clock edge
//
// # Usage
//
//	e := dial.Engine{Size: dial.DefaultSize}
//	s, err := e.Reset(dial.DefaultStart)
//	if err != nil {
//	    return err
//	}
//	s, err = e.Apply(s, dial.Command{Direction: dial.Left, Distance: 68})
//
// Engine and Compute perform no I/O and hold no hidden state; replaying the
// same commands from the same start always yields the same result.
package dial
