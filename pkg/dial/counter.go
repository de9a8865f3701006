package dial

import "fmt"

// Compute returns the position reached by applying cmd from position on a dial
// with size positions, and the number of times the dial arrives at 0 along the
// way. It runs in constant time regardless of the distance.
//
// Staying put is not an arrival: a zero distance never counts a visit, even
// when position is already 0.
func Compute(size, position int64, cmd Command) (int64, uint64, error) {
	if err := checkSize(size); err != nil {
		return 0, 0, err
	}
	if position < 0 || position >= size {
		return 0, 0, fmt.Errorf("%w: position %d not in [0, %d)", ErrInvalidCommand, position, size)
	}
	if err := cmd.Validate(); err != nil {
		return 0, 0, err
	}
	if cmd.Distance == 0 {
		return position, 0, nil
	}

	return wrap(size, position, cmd), zeroVisits(size, position, cmd), nil
}

// wrap reduces the distance before adding so that arbitrarily large distances
// cannot overflow.
func wrap(size, position int64, cmd Command) int64 {
	d := cmd.Distance % size
	if cmd.Direction == Right {
		// compare against the room left before 0 instead of adding, so sizes
		// near the int64 limit cannot overflow
		if room := size - position; d >= room {
			return d - room
		}
		return position + d
	}
	p := position - d
	if p < 0 {
		p += size
	}
	return p
}

// stepsToFirstZero is how far the dial travels before it first arrives at 0.
// From 0 itself that is a full revolution.
func stepsToFirstZero(size, position int64, dir Direction) int64 {
	if position == 0 {
		return size
	}
	if dir == Right {
		return size - position
	}
	return position
}

func zeroVisits(size, position int64, cmd Command) uint64 {
	first := stepsToFirstZero(size, position, cmd.Direction)
	if cmd.Distance < first {
		return 0
	}
	return 1 + uint64((cmd.Distance-first)/size)
}

// UnitStep moves the dial one unit at a time, cmd.Distance times, counting
// each step that lands on 0. It is O(distance) and exists to cross-check
// Compute.
func UnitStep(size, position int64, cmd Command) (int64, uint64, error) {
	if err := checkSize(size); err != nil {
		return 0, 0, err
	}
	if position < 0 || position >= size {
		return 0, 0, fmt.Errorf("%w: position %d not in [0, %d)", ErrInvalidCommand, position, size)
	}
	if err := cmd.Validate(); err != nil {
		return 0, 0, err
	}

	var visits uint64
	for i := int64(0); i < cmd.Distance; i++ {
		if cmd.Direction == Right {
			position++
			if position == size {
				position = 0
			}
		} else {
			position--
			if position < 0 {
				position = size - 1
			}
		}
		if position == 0 {
			visits++
		}
	}
	return position, visits, nil
}
