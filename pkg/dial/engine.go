package dial

// Engine applies rotation commands to an explicit State using the closed
// form in Compute. It holds no state of its own.
type Engine struct {
	Size int64
}

// Reset returns the state of a freshly reset dial at initial.
func (e Engine) Reset(initial int64) (State, error) {
	if err := checkInitial(e.Size, initial); err != nil {
		return State{}, err
	}
	return State{Position: initial}, nil
}

// Apply returns s advanced by cmd. s is not modified.
func (e Engine) Apply(s State, cmd Command) (State, error) {
	pos, visits, err := Compute(e.Size, s.Position, cmd)
	if err != nil {
		return s, err
	}
	return s.Advance(pos, visits, cmd.Distance), nil
}
