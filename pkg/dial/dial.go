package dial

import (
	"fmt"
	"strconv"
)

const (
	// DefaultSize is the number of positions on a standard dial.
	DefaultSize int64 = 100

	// DefaultStart is the position a dial holds after reset unless told otherwise.
	DefaultStart int64 = 50
)

// Direction selects which way a rotation turns the dial.
type Direction int

const (
	// Left turns toward lower numbers.
	Left Direction = iota
	// Right turns toward higher numbers.
	Right
)

// String returns the single-letter form used in command logs.
func (d Direction) String() string {
	switch d {
	case Left:
		return "L"
	case Right:
		return "R"
	default:
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// Valid reports whether d is Left or Right.
func (d Direction) Valid() bool {
	return d == Left || d == Right
}

// ParseDirection maps 'L' and 'R' to a Direction.
func ParseDirection(c byte) (Direction, error) {
	switch c {
	case 'L':
		return Left, nil
	case 'R':
		return Right, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidCommand, c)
	}
}

// Command is a single rotation: turn Distance steps toward Direction.
type Command struct {
	Direction Direction
	Distance  int64
}

// String renders the command the way it appears in a command log, e.g. "L68".
func (c Command) String() string {
	return c.Direction.String() + strconv.FormatInt(c.Distance, 10)
}

// Validate returns ErrInvalidCommand if the direction is unknown or the
// distance is negative.
func (c Command) Validate() error {
	if !c.Direction.Valid() {
		return fmt.Errorf("%w: direction %d out of range", ErrInvalidCommand, int(c.Direction))
	}
	if c.Distance < 0 {
		return fmt.Errorf("%w: negative distance %d", ErrInvalidCommand, c.Distance)
	}
	return nil
}

// State is the dial position together with its zero counters.
//
// ZeroCount counts every arrival at 0, including those in the middle of a
// rotation. Landings counts only the commands that moved the dial and left it
// at 0.
type State struct {
	Position  int64  `json:"position"`
	ZeroCount uint64 `json:"zero_count"`
	Landings  uint64 `json:"landings"`
}

// String returns a compact representation for log output.
func (s State) String() string {
	return fmt.Sprintf("position=%d zero_count=%d landings=%d", s.Position, s.ZeroCount, s.Landings)
}

// Advance returns s moved to pos after a command of the given distance that
// visited 0 visits times.
func (s State) Advance(pos int64, visits uint64, distance int64) State {
	next := State{Position: pos, ZeroCount: s.ZeroCount + visits, Landings: s.Landings}
	if distance > 0 && pos == 0 {
		next.Landings++
	}
	return next
}

func checkSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}

func checkInitial(size, position int64) error {
	if err := checkSize(size); err != nil {
		return err
	}
	if position < 0 || position >= size {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidInitialPosition, position, size)
	}
	return nil
}
