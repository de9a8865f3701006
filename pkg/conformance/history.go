package conformance

import "github.com/bft-labs/safedial/pkg/dial"

// history keeps the last n commands in a fixed ring.
type history struct {
	buf  []dial.Command
	next int
	full bool
}

func newHistory(n int) *history {
	if n < 0 {
		n = 0
	}
	return &history{buf: make([]dial.Command, n)}
}

func (h *history) push(cmd dial.Command) {
	if len(h.buf) == 0 {
		return
	}
	h.buf[h.next] = cmd
	h.next++
	if h.next == len(h.buf) {
		h.next = 0
		h.full = true
	}
}

// snapshot returns the retained commands, oldest first.
func (h *history) snapshot() []dial.Command {
	if !h.full {
		return append([]dial.Command(nil), h.buf[:h.next]...)
	}
	out := make([]dial.Command, 0, len(h.buf))
	out = append(out, h.buf[h.next:]...)
	return append(out, h.buf[:h.next]...)
}
