package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bft-labs/safedial/pkg/commandlog"
	"github.com/bft-labs/safedial/pkg/conformance"
	"github.com/bft-labs/safedial/pkg/dial"
	"github.com/bft-labs/safedial/pkg/log"
	"github.com/bft-labs/safedial/pkg/state"
)

// Config contains the settings a Runner needs.
type Config struct {
	InputPath     string
	DialSize      int64
	StartPosition int64
	ProgressEvery int
	UnitStepLimit int64
	HistoryDepth  int
	ResetCycles   int
	Debounce      time.Duration

	// Resume continues from the saved checkpoint when it belongs to the
	// same input and dial.
	Resume bool
}

// RunReport summarises a streaming run.
type RunReport struct {
	Final     dial.State
	Processed uint64
	Resumed   bool
	Elapsed   time.Duration
}

// Runner drives command logs through the dial models.
type Runner struct {
	config Config
	repo   state.Repository
	logger log.Logger
}

// NewRunner creates a Runner. repo may be nil, in which case no checkpoints
// are loaded or saved.
func NewRunner(cfg Config, repo state.Repository, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Runner{config: cfg, repo: repo, logger: logger}
}

// Run streams the command log through the closed-form engine one command at
// a time and returns the final state.
func (r *Runner) Run(ctx context.Context) (RunReport, error) {
	start := time.Now()
	engine := dial.Engine{Size: r.config.DialSize}

	s, err := engine.Reset(r.config.StartPosition)
	if err != nil {
		return RunReport{}, err
	}

	cp := state.Checkpoint{
		InputPath: r.config.InputPath,
		DialSize:  r.config.DialSize,
		Initial:   r.config.StartPosition,
		Dial:      s,
	}
	report := RunReport{Final: s}

	reader := commandlog.NewReader(r.config.InputPath, r.logger)
	if r.config.Resume && r.repo != nil {
		saved, err := r.repo.Load(ctx)
		if err != nil {
			return report, fmt.Errorf("load checkpoint: %w", err)
		}
		if saved.IsEmpty() {
			r.logger.Info("no checkpoint, starting from the beginning")
		} else if report.Resumed, err = r.resume(ctx, reader, saved); err != nil {
			return report, err
		}
		if report.Resumed {
			cp = saved
			s = saved.Dial
			r.logger.Info("resuming from checkpoint",
				log.Uint64("processed", saved.Processed),
				log.Stringer("state", saved.Dial),
			)
		}
	}
	if !report.Resumed {
		if err := reader.Open(ctx, 0, 0); err != nil {
			return report, fmt.Errorf("open command log: %w", err)
		}
	}
	defer reader.Close()

	processed := cp.Processed
	for {
		cmd, err := reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.finish(ctx, report, cp, processed, s, start, err)
		}

		s, err = engine.Apply(s, cmd)
		if err != nil {
			_, line := reader.Position()
			return r.finish(ctx, report, cp, processed, s, start, fmt.Errorf("line %d: %w", line, err))
		}
		processed++
		off, line := reader.Position()
		cp.Advance(off, line, reader.Digest(), processed, s)

		r.logger.Debug("rotation",
			log.Uint64("index", processed),
			log.Stringer("command", cmd),
			log.Int64("position", s.Position),
			log.Uint64("zero_count", s.ZeroCount),
		)

		if r.config.ProgressEvery > 0 && processed%uint64(r.config.ProgressEvery) == 0 {
			r.logger.Info("progress",
				log.Uint64("processed", processed),
				log.Int64("position", s.Position),
				log.Uint64("zero_count", s.ZeroCount),
			)
			if err := r.save(ctx, cp); err != nil {
				return r.finish(ctx, report, cp, processed, s, start, err)
			}
		}
	}

	return r.finish(ctx, report, cp, processed, s, start, nil)
}

// resume opens reader just past saved's offset when saved belongs to this
// input and dial and the log still starts with the bytes it was taken from.
// It reports false, leaving reader closed, when the checkpoint cannot be used.
func (r *Runner) resume(ctx context.Context, reader *commandlog.Reader, saved state.Checkpoint) (bool, error) {
	foreign := func(reason string) {
		r.logger.Warn("checkpoint belongs to another run, starting from the beginning",
			log.String("reason", reason),
			log.String("checkpoint_input", saved.InputPath),
			log.Int64("checkpoint_dial_size", saved.DialSize),
			log.Int64("checkpoint_start", saved.Initial),
			log.Int64("checkpoint_offset", saved.Offset),
		)
	}

	if !saved.Matches(r.config.InputPath, r.config.DialSize, r.config.StartPosition) {
		foreign("different input or dial")
		return false, nil
	}

	err := reader.Open(ctx, saved.Offset, saved.Line)
	if errors.Is(err, commandlog.ErrTruncated) {
		foreign("command log truncated")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open command log: %w", err)
	}
	if reader.Digest() != saved.Digest {
		reader.Close()
		foreign("command log rewritten")
		return false, nil
	}
	return true, nil
}

// finish records the outcome and saves the last good checkpoint.
func (r *Runner) finish(ctx context.Context, report RunReport, cp state.Checkpoint, processed uint64, s dial.State, start time.Time, runErr error) (RunReport, error) {
	report.Final = s
	report.Processed = processed
	report.Elapsed = time.Since(start)

	if err := r.save(ctx, cp); err != nil && runErr == nil {
		runErr = err
	}
	return report, runErr
}

func (r *Runner) save(ctx context.Context, cp state.Checkpoint) error {
	if r.repo == nil || cp.Processed == 0 {
		return nil
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	if err := r.repo.Save(ctx, cp); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// Harness builds the conformance harness described by the config.
func (r *Runner) Harness() *conformance.Harness {
	return conformance.New(r.config.DialSize,
		conformance.WithResetCycles(r.config.ResetCycles),
		conformance.WithUnitStepLimit(r.config.UnitStepLimit),
		conformance.WithHistoryDepth(r.config.HistoryDepth),
		conformance.WithProgressEvery(r.config.ProgressEvery),
		conformance.WithLogger(r.logger),
	)
}

// Compare loads the whole command log and replays it through the reference
// and clocked models.
func (r *Runner) Compare(ctx context.Context) (conformance.Result, error) {
	cmds, err := commandlog.ReadAll(ctx, r.config.InputPath)
	if err != nil {
		return conformance.Result{}, fmt.Errorf("read command log: %w", err)
	}
	r.logger.Info("loaded rotations", log.Int("count", len(cmds)))

	return r.Harness().Compare(ctx, cmds, r.config.StartPosition)
}

// Watch runs Compare once and again every time the command log changes,
// handing each outcome to report. Comparisons never overlap. It blocks until
// ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, report func(conformance.Result, error)) error {
	var mu sync.Mutex
	compare := func(ctx context.Context) {
		mu.Lock()
		defer mu.Unlock()
		report(r.Compare(ctx))
	}

	compare(ctx)
	return commandlog.NewFollower(r.config.InputPath, r.config.Debounce, compare, r.logger).Run(ctx)
}
