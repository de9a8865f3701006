package state

import "context"

// Repository stores checkpoints.
type Repository interface {
	// Load returns the last saved checkpoint, or an empty one if none exists.
	Load(ctx context.Context) (Checkpoint, error)

	// Save persists the checkpoint atomically.
	Save(ctx context.Context, cp Checkpoint) error
}
