package commandlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/bft-labs/safedial/pkg/dial"
	"github.com/bft-labs/safedial/pkg/log"
)

// ErrTruncated is returned by Open when the log is shorter than the requested
// offset.
var ErrTruncated = errors.New("commandlog: log shorter than offset")

// Reader streams commands from a command log file. It keeps a digest of every
// byte consumed so that a later run can tell whether the prefix it resumes
// after is still the same.
type Reader struct {
	path   string
	file   *os.File
	reader *bufio.Reader
	offset int64
	line   int
	digest *xxhash.Digest
	logger log.Logger
}

// NewReader creates a Reader for the log at path. Call Open before Next.
func NewReader(path string, logger log.Logger) *Reader {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Reader{path: path, logger: logger}
}

// Open opens the log positioned at offset. line is the number of lines already
// consumed before offset and is only used for error messages.
func (r *Reader) Open(ctx context.Context, offset int64, line int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	digest := xxhash.New()
	if offset > 0 {
		// the skipped prefix is hashed rather than seeked over
		if n, err := io.CopyN(digest, f, offset); err != nil {
			f.Close()
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %s has %d bytes, want %d", ErrTruncated, r.path, n, offset)
			}
			return fmt.Errorf("read %s up to %d: %w", r.path, offset, err)
		}
		r.logger.Debug("resuming command log",
			log.String("path", r.path),
			log.Int64("offset", offset),
			log.Int("line", line),
		)
	}

	r.file = f
	r.reader = bufio.NewReaderSize(f, 64*1024)
	r.offset = offset
	r.line = line
	r.digest = digest
	return nil
}

// Next returns the next command, skipping blank lines. It returns io.EOF once
// the log is exhausted. A final line without a trailing newline is still
// returned.
func (r *Reader) Next(ctx context.Context) (dial.Command, error) {
	if r.reader == nil {
		return dial.Command{}, errors.New("commandlog: reader not open")
	}

	for {
		select {
		case <-ctx.Done():
			return dial.Command{}, ctx.Err()
		default:
		}

		raw, err := r.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return dial.Command{}, err
		}
		if len(raw) == 0 {
			return dial.Command{}, io.EOF
		}

		r.offset += int64(len(raw))
		r.line++
		r.digest.WriteString(raw)

		if strings.TrimSpace(raw) == "" {
			if err != nil {
				return dial.Command{}, io.EOF
			}
			continue
		}

		cmd, perr := ParseCommand(raw)
		if perr != nil {
			return dial.Command{}, fmt.Errorf("%s:%d: %w", r.path, r.line, perr)
		}
		return cmd, nil
	}
}

// Position returns the byte offset and line count consumed so far.
func (r *Reader) Position() (int64, int) {
	return r.offset, r.line
}

// Digest returns the xxhash of the bytes consumed so far, including any
// prefix skipped by Open.
func (r *Reader) Digest() uint64 {
	if r.digest == nil {
		return 0
	}
	return r.digest.Sum64()
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.reader = nil
	return err
}

// ReadAll parses every command in the log at path.
func ReadAll(ctx context.Context, path string) ([]dial.Command, error) {
	r := NewReader(path, nil)
	if err := r.Open(ctx, 0, 0); err != nil {
		return nil, err
	}
	defer r.Close()

	var cmds []dial.Command
	for {
		cmd, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return cmds, nil
		}
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
}
