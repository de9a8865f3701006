package dial

// DefaultResetCycles is how many clock edges reset is held for.
const DefaultResetCycles = 5

// Clocked is a cycle-accurate model of the dial as a synchronous circuit.
//
// Inputs are sampled on the rising edge produced by Tick. With rst high the
// registers load the initial position and clear the count. With rst low and
// valid high the command on direction/distance is latched and the registers
// take their next value on that same edge. Edges with valid low hold state.
//
// The next-state logic splits the distance into full revolutions and a
// remainder, the way a divider in hardware would, rather than reusing Compute.
type Clocked struct {
	size        int64
	resetCycles int

	// inputs
	rst       bool
	valid     bool
	direction Direction
	distance  int64
	initial   int64

	// registered outputs
	positionQ  int64
	zeroCountQ uint64
	landingsQ  uint64
	ready      bool

	cycles uint64
}

// ClockedOption configures a Clocked model.
type ClockedOption func(*Clocked)

// WithResetCycles sets how many edges Reset holds rst high for. Values below
// one are ignored.
func WithResetCycles(n int) ClockedOption {
	return func(c *Clocked) {
		if n > 0 {
			c.resetCycles = n
		}
	}
}

// NewClocked creates a Clocked model for a dial with size positions. The
// model starts held in reset.
func NewClocked(size int64, opts ...ClockedOption) *Clocked {
	c := &Clocked{
		size:        size,
		resetCycles: DefaultResetCycles,
		rst:         true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns "clocked".
func (c *Clocked) Name() string { return "clocked" }

// Phase reports PhaseReady once reset has been released.
func (c *Clocked) Phase() Phase {
	if c.ready {
		return PhaseReady
	}
	return PhaseReset
}

// Outputs returns the current register values.
func (c *Clocked) Outputs() State {
	return State{Position: c.positionQ, ZeroCount: c.zeroCountQ, Landings: c.landingsQ}
}

// Cycles returns the number of rising edges seen so far.
func (c *Clocked) Cycles() uint64 { return c.cycles }

// Drive sets the command inputs for the next edge.
func (c *Clocked) Drive(valid bool, dir Direction, distance int64) {
	c.valid = valid
	c.direction = dir
	c.distance = distance
}

// Tick produces one rising clock edge.
func (c *Clocked) Tick() {
	c.cycles++
	if c.rst {
		c.positionQ = c.initial
		c.zeroCountQ = 0
		c.landingsQ = 0
		c.ready = false
		return
	}
	c.ready = true
	if !c.valid {
		return
	}
	pos, visits := c.next()
	c.positionQ = pos
	c.zeroCountQ += visits
	if pos == 0 && c.distance != 0 {
		c.landingsQ++
	}
}

func (c *Clocked) next() (int64, uint64) {
	revs := c.distance / c.size
	rem := c.distance % c.size
	pos := c.positionQ

	var crossed bool
	var next int64
	if c.direction == Right {
		room := c.size - pos
		if rem >= room {
			next = rem - room
		} else {
			next = pos + rem
		}
		crossed = pos != 0 && rem >= room
	} else {
		next = pos - rem
		if next < 0 {
			next += c.size
		}
		crossed = pos != 0 && rem >= pos
	}

	visits := uint64(revs)
	if crossed {
		visits++
	}
	return next, visits
}

// Reset holds rst high for the configured number of edges, then releases it
// for one more edge so the model comes out ready.
func (c *Clocked) Reset(initial int64) (State, error) {
	if err := checkInitial(c.size, initial); err != nil {
		return c.Outputs(), err
	}
	c.initial = initial
	c.rst = true
	c.Drive(false, Left, 0)
	for i := 0; i < c.resetCycles; i++ {
		c.Tick()
	}
	c.rst = false
	c.Tick()
	return c.Outputs(), nil
}

// Step drives one command with valid high for exactly one edge and returns
// the registers after that edge.
func (c *Clocked) Step(cmd Command) (State, error) {
	if !c.ready {
		return c.Outputs(), ErrNotReady
	}
	if err := cmd.Validate(); err != nil {
		return c.Outputs(), err
	}
	c.Drive(true, cmd.Direction, cmd.Distance)
	c.Tick()
	c.Drive(false, cmd.Direction, cmd.Distance)
	return c.Outputs(), nil
}
