package commandlog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/safedial/pkg/log"
)

// DefaultDebounce is how long the Follower waits after the last change before
// firing.
const DefaultDebounce = 100 * time.Millisecond

// Follower watches a command log and calls OnChange after it is written or
// re-created. Bursts of events within the debounce delay collapse into one call.
type Follower struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   log.Logger

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	running sync.WaitGroup
}

// NewFollower creates a Follower for path. A non-positive debounce uses
// DefaultDebounce.
func NewFollower(path string, debounce time.Duration, onChange func(ctx context.Context), logger log.Logger) *Follower {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Follower{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. The parent directory is watched rather
// than the file so editors that replace the file on save are still seen.
func (f *Follower) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	defer f.stop()

	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	f.logger.Info("watching command log", log.String("path", f.path))

	name := filepath.Base(f.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			f.logger.Debug("command log changed", log.String("op", event.Op.String()))
			f.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (f *Follower) schedule(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.debounce, func() {
		f.mu.Lock()
		if f.stopped || ctx.Err() != nil {
			f.mu.Unlock()
			return
		}
		f.running.Add(1)
		f.mu.Unlock()

		defer f.running.Done()
		f.onChange(ctx)
	})
}

// stop cancels a pending callback and waits for one that already started, so
// OnChange is never called after Run returns.
func (f *Follower) stop() {
	f.mu.Lock()
	f.stopped = true
	if f.timer != nil {
		f.timer.Stop()
	}
	f.mu.Unlock()

	f.running.Wait()
}
