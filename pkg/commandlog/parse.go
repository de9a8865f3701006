package commandlog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bft-labs/safedial/pkg/dial"
)

// ParseCommand parses a single line such as "L68". Surrounding whitespace is
// ignored. Malformed lines wrap dial.ErrInvalidCommand.
func ParseCommand(line string) (dial.Command, error) {
	s := strings.TrimSpace(line)
	if len(s) < 2 {
		return dial.Command{}, fmt.Errorf("%w: %q", dial.ErrInvalidCommand, s)
	}

	dir, err := dial.ParseDirection(s[0])
	if err != nil {
		return dial.Command{}, err
	}

	digits := s[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return dial.Command{}, fmt.Errorf("%w: distance %q is not a non-negative integer", dial.ErrInvalidCommand, digits)
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return dial.Command{}, fmt.Errorf("%w: distance %q: %v", dial.ErrInvalidCommand, digits, err)
	}

	return dial.Command{Direction: dir, Distance: n}, nil
}
