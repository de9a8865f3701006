package dial

// Phase is where a stepper sits in its reset/ready cycle.
//
// A stepper starts in PhaseReset. Reset moves it to PhaseReady, where every
// Step keeps it in PhaseReady. There is no terminal phase.
type Phase int

const (
	// PhaseReset means the stepper is held in reset; Step returns ErrNotReady.
	PhaseReset Phase = iota
	// PhaseReady means the stepper has been reset and accepts commands.
	PhaseReady
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseReset:
		return "Reset"
	case PhaseReady:
		return "Ready"
	default:
		return "Unknown"
	}
}
