package dial

// Stepper computes the next dial state from one command at a time.
//
// Each trajectory owns its own Stepper; implementations are not safe for
// concurrent use.
type Stepper interface {
	// Name identifies the implementation in reports.
	Name() string

	// Reset puts the dial at initial with a zero count and moves it to
	// PhaseReady.
	Reset(initial int64) (State, error)

	// Step consumes exactly one command and returns the resulting state.
	// Returns ErrNotReady before the first Reset.
	Step(cmd Command) (State, error)

	// Phase returns the current phase.
	Phase() Phase
}

// Reference is the closed-form Stepper: it threads a State through an Engine.
type Reference struct {
	engine Engine
	state  State
	phase  Phase
}

// NewReference creates a Reference for a dial with size positions.
func NewReference(size int64) *Reference {
	return &Reference{engine: Engine{Size: size}}
}

// Name returns "closed-form".
func (r *Reference) Name() string { return "closed-form" }

// Phase returns the current phase.
func (r *Reference) Phase() Phase { return r.phase }

// State returns the last computed state.
func (r *Reference) State() State { return r.state }

// Reset implements Stepper.
func (r *Reference) Reset(initial int64) (State, error) {
	s, err := r.engine.Reset(initial)
	if err != nil {
		return r.state, err
	}
	r.state = s
	r.phase = PhaseReady
	return s, nil
}

// Step implements Stepper.
func (r *Reference) Step(cmd Command) (State, error) {
	if r.phase != PhaseReady {
		return r.state, ErrNotReady
	}
	s, err := r.engine.Apply(r.state, cmd)
	if err != nil {
		return r.state, err
	}
	r.state = s
	return s, nil
}
