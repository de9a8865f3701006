package conformance

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/safedial/pkg/dial"
	"github.com/bft-labs/safedial/pkg/log"
)

// Defaults for Harness options.
const (
	DefaultHistoryDepth  = 3
	DefaultProgressEvery = 500
	DefaultUnitStepLimit = 1000
)

// unitStepArm is the name reported when the naive simulation disagrees.
const unitStepArm = "unit-step"

// how often Compare looks at the context
const cancelCheckEvery = 1024

// Factory builds a fresh stepper for one run.
type Factory func(size int64) dial.Stepper

// cycleCounter is implemented by steppers that model a clock.
type cycleCounter interface {
	Cycles() uint64
}

// Harness compares a reference stepper against a candidate.
// A Harness holds no per-run state and may be reused.
type Harness struct {
	size          int64
	reference     Factory
	candidate     Factory
	unitStepLimit int64
	historyDepth  int
	progressEvery int
	logger        log.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithReference replaces the closed-form reference arm.
func WithReference(f Factory) Option {
	return func(h *Harness) { h.reference = f }
}

// WithCandidate replaces the clocked candidate arm.
func WithCandidate(f Factory) Option {
	return func(h *Harness) { h.candidate = f }
}

// WithUnitStepLimit sets the largest distance that is also checked with the
// naive simulation. Zero disables the check.
func WithUnitStepLimit(n int64) Option {
	return func(h *Harness) { h.unitStepLimit = n }
}

// WithHistoryDepth sets how many preceding commands a Mismatch keeps.
func WithHistoryDepth(n int) Option {
	return func(h *Harness) { h.historyDepth = n }
}

// WithProgressEvery logs progress every n commands. Zero disables it.
func WithProgressEvery(n int) Option {
	return func(h *Harness) { h.progressEvery = n }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l log.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithResetCycles makes the default clocked candidate hold reset for n edges.
func WithResetCycles(n int) Option {
	return func(h *Harness) {
		h.candidate = func(size int64) dial.Stepper {
			return dial.NewClocked(size, dial.WithResetCycles(n))
		}
	}
}

// New creates a Harness for a dial with size positions.
func New(size int64, opts ...Option) *Harness {
	h := &Harness{
		size: size,
		reference: func(size int64) dial.Stepper {
			return dial.NewReference(size)
		},
		candidate: func(size int64) dial.Stepper {
			return dial.NewClocked(size)
		},
		unitStepLimit: DefaultUnitStepLimit,
		historyDepth:  DefaultHistoryDepth,
		progressEvery: DefaultProgressEvery,
		logger:        log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Compare resets both arms to initial and feeds them cmds in order, stopping
// at the first disagreement. Invalid input is returned as an error; a
// disagreement is reported in Result.Mismatch with a nil error.
//
// cmds is not modified.
func (h *Harness) Compare(ctx context.Context, cmds []dial.Command, initial int64) (res Result, err error) {
	ref := h.reference(h.size)
	cand := h.candidate(h.size)
	res.Initial = initial

	refState, err := ref.Reset(initial)
	if err != nil {
		return res, fmt.Errorf("reset %s: %w", ref.Name(), err)
	}
	candState, err := cand.Reset(initial)
	if err != nil {
		return res, fmt.Errorf("reset %s: %w", cand.Name(), err)
	}
	res.Final = refState
	if refState != candState {
		res.Mismatch = &Mismatch{
			Index:     -1,
			Arm:       cand.Name(),
			Reference: refState,
			Candidate: candState,
		}
		return res, nil
	}

	var cycles0 uint64
	clock, clocked := cand.(cycleCounter)
	if clocked {
		cycles0 = clock.Cycles()
	}

	hist := newHistory(h.historyDepth)
	start := time.Now()
	defer func() {
		res.Stats.Commands = res.Processed
		res.Stats.Elapsed = time.Since(start)
		if clocked {
			res.Stats.Cycles = clock.Cycles() - cycles0
		}
	}()

	for i, cmd := range cmds {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		before := refState
		refState, err = ref.Step(cmd)
		if err != nil {
			return res, fmt.Errorf("rotation %d (%s): %w", i+1, cmd, err)
		}
		candState, err = cand.Step(cmd)
		if err != nil {
			return res, fmt.Errorf("rotation %d (%s) on %s: %w", i+1, cmd, cand.Name(), err)
		}

		mismatch := func(arm string, got dial.State) *Mismatch {
			return &Mismatch{
				Index:     i,
				Command:   cmd,
				Before:    before,
				Arm:       arm,
				Reference: refState,
				Candidate: got,
				History:   hist.snapshot(),
			}
		}

		if candState != refState {
			res.Mismatch = mismatch(cand.Name(), candState)
			h.logMismatch(res.Mismatch)
			return res, nil
		}

		if h.unitStepLimit > 0 && cmd.Distance <= h.unitStepLimit {
			pos, visits, err := dial.UnitStep(h.size, before.Position, cmd)
			if err != nil {
				return res, fmt.Errorf("rotation %d (%s) on %s: %w", i+1, cmd, unitStepArm, err)
			}
			if naive := before.Advance(pos, visits, cmd.Distance); naive != refState {
				res.Mismatch = mismatch(unitStepArm, naive)
				h.logMismatch(res.Mismatch)
				return res, nil
			}
		}

		hist.push(cmd)
		res.Final = refState
		res.Processed = i + 1

		if h.progressEvery > 0 && res.Processed%h.progressEvery == 0 {
			h.logger.Info("progress",
				log.Int("processed", res.Processed),
				log.Int("total", len(cmds)),
				log.Int64("position", refState.Position),
				log.Uint64("zero_count", refState.ZeroCount),
			)
		}
	}

	res.Passed = true
	return res, nil
}

func (h *Harness) logMismatch(m *Mismatch) {
	h.logger.Error("discrepancy found",
		log.Int("rotation", m.Index+1),
		log.Stringer("command", m.Command),
		log.Int64("from_position", m.Before.Position),
		log.String("arm", m.Arm),
		log.Stringer("reference", m.Reference),
		log.Stringer("candidate", m.Candidate),
		log.Int64("position_diff", m.PositionDiff()),
		log.Int64("zero_count_diff", m.ZeroCountDiff()),
	)
	if len(m.History) > 0 {
		h.logger.Info("previous rotations", log.String("history", m.HistoryString()))
	}
}
