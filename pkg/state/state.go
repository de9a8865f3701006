package state

import (
	"time"

	"github.com/bft-labs/safedial/pkg/dial"
)

// Checkpoint is the progress of a run through a command log.
type Checkpoint struct {
	// InputPath is the command log the checkpoint belongs to.
	InputPath string `json:"input_path"`

	// Offset is the byte offset just past the last applied command.
	Offset int64 `json:"offset"`

	// Line is the number of lines consumed up to Offset.
	Line int `json:"line"`

	// Digest is the xxhash of the log's first Offset bytes. A log whose prefix
	// hashes differently has been rewritten and cannot be resumed.
	Digest uint64 `json:"prefix_digest"`

	// Processed is the number of commands applied.
	Processed uint64 `json:"processed"`

	DialSize int64      `json:"dial_size"`
	Initial  int64      `json:"initial_position"`
	Dial     dial.State `json:"dial"`

	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty returns true if the checkpoint has not been initialized.
func (c Checkpoint) IsEmpty() bool {
	return c.InputPath == ""
}

// Matches reports whether c was written for the given input and dial. The
// log's content is checked separately against Digest.
func (c Checkpoint) Matches(inputPath string, size, initial int64) bool {
	return c.InputPath == inputPath && c.DialSize == size && c.Initial == initial
}

// Advance records progress after applying commands.
func (c *Checkpoint) Advance(offset int64, line int, digest uint64, processed uint64, s dial.State) {
	c.Offset = offset
	c.Line = line
	c.Digest = digest
	c.Processed = processed
	c.Dial = s
	c.UpdatedAt = time.Now().UTC()
}
