package dial

import (
	"errors"
	"math/rand"
	"testing"
)

func steppers() []Stepper {
	return []Stepper{NewReference(DefaultSize), NewClocked(DefaultSize)}
}

func TestStepper_NotReadyBeforeReset(t *testing.T) {
	for _, s := range steppers() {
		t.Run(s.Name(), func(t *testing.T) {
			if s.Phase() != PhaseReset {
				t.Errorf("initial phase = %v, want Reset", s.Phase())
			}
			if _, err := s.Step(Command{Right, 1}); !errors.Is(err, ErrNotReady) {
				t.Errorf("Step() before Reset error = %v, want ErrNotReady", err)
			}
		})
	}
}

func TestStepper_Scenarios(t *testing.T) {
	for _, sc := range scenarios {
		for _, s := range steppers() {
			t.Run(sc.name+"/"+s.Name(), func(t *testing.T) {
				st, err := s.Reset(sc.initial)
				if err != nil {
					t.Fatalf("Reset() error: %v", err)
				}
				if st != (State{Position: sc.initial}) {
					t.Fatalf("Reset() = %v", st)
				}
				if s.Phase() != PhaseReady {
					t.Fatalf("phase after reset = %v, want Ready", s.Phase())
				}
				for i, cmd := range commands(t, sc.cmds...) {
					st, err = s.Step(cmd)
					if err != nil {
						t.Fatalf("Step(%s) error: %v", cmd, err)
					}
					w := sc.want[i]
					if st != (State{Position: w.pos, ZeroCount: w.count, Landings: w.landings}) {
						t.Errorf("step %d %s: got %v", i+1, cmd, st)
					}
				}
			})
		}
	}
}

func TestStepper_ResetClearsPriorState(t *testing.T) {
	for _, s := range steppers() {
		t.Run(s.Name(), func(t *testing.T) {
			if _, err := s.Reset(50); err != nil {
				t.Fatal(err)
			}
			for _, cmd := range commands(t, "L50", "R1234", "L7") {
				if _, err := s.Step(cmd); err != nil {
					t.Fatal(err)
				}
			}

			st, err := s.Reset(17)
			if err != nil {
				t.Fatalf("Reset() error: %v", err)
			}
			if st != (State{Position: 17}) {
				t.Errorf("Reset(17) after use = %v, want position=17 and cleared counts", st)
			}
		})
	}
}

func TestStepper_InvalidInput(t *testing.T) {
	for _, s := range steppers() {
		t.Run(s.Name(), func(t *testing.T) {
			if _, err := s.Reset(100); !errors.Is(err, ErrInvalidInitialPosition) {
				t.Errorf("Reset(100) error = %v, want ErrInvalidInitialPosition", err)
			}
			if _, err := s.Reset(3); err != nil {
				t.Fatal(err)
			}
			st, err := s.Step(Command{Direction(2), 5})
			if !errors.Is(err, ErrInvalidCommand) {
				t.Errorf("Step() error = %v, want ErrInvalidCommand", err)
			}
			if st != (State{Position: 3}) {
				t.Errorf("state after rejected command = %v", st)
			}
		})
	}
}

func TestClocked_ResetTiming(t *testing.T) {
	c := NewClocked(DefaultSize, WithResetCycles(3))
	if _, err := c.Reset(50); err != nil {
		t.Fatal(err)
	}
	// three edges in reset plus one to release it
	if c.Cycles() != 4 {
		t.Errorf("cycles after reset = %d, want 4", c.Cycles())
	}

	if _, err := c.Step(Command{Left, 50}); err != nil {
		t.Fatal(err)
	}
	if c.Cycles() != 5 {
		t.Errorf("cycles after one step = %d, want 5", c.Cycles())
	}
}

func TestClocked_IdleEdgesHoldState(t *testing.T) {
	c := NewClocked(DefaultSize)
	if _, err := c.Reset(50); err != nil {
		t.Fatal(err)
	}
	want, _ := c.Step(Command{Right, 150})

	for i := 0; i < 10; i++ {
		c.Tick()
	}
	if got := c.Outputs(); got != want {
		t.Errorf("outputs after idle edges = %v, want %v", got, want)
	}
}

func TestClocked_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, size := range []int64{1, 3, 10, DefaultSize, 4096} {
		ref := NewReference(size)
		clk := NewClocked(size)
		start := rng.Int63n(size)
		if _, err := ref.Reset(start); err != nil {
			t.Fatal(err)
		}
		if _, err := clk.Reset(start); err != nil {
			t.Fatal(err)
		}

		for i := 0; i < 2000; i++ {
			cmd := Command{Direction(rng.Intn(2)), rng.Int63n(5 * size)}
			a, _ := ref.Step(cmd)
			b, _ := clk.Step(cmd)
			if a != b {
				t.Fatalf("size=%d command %d %s: reference %v, clocked %v", size, i, cmd, a, b)
			}
		}
	}
}

func TestClocked_MatchesReferenceAtMaxSize(t *testing.T) {
	const max = int64(^uint64(0) >> 1)

	ref := NewReference(max)
	clk := NewClocked(max)
	if _, err := ref.Reset(max - 2); err != nil {
		t.Fatal(err)
	}
	if _, err := clk.Reset(max - 2); err != nil {
		t.Fatal(err)
	}

	cmds := []Command{
		{Right, 1}, {Right, 1}, {Right, 3}, {Left, 4}, {Left, 1},
		{Right, max}, {Left, max}, {Right, max - 1}, {Left, max - 1},
	}
	for i, cmd := range cmds {
		a, _ := ref.Step(cmd)
		b, _ := clk.Step(cmd)
		if a != b {
			t.Fatalf("command %d %s: reference %v, clocked %v", i, cmd, a, b)
		}
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseReset, "Reset"},
		{PhaseReady, "Ready"},
		{Phase(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %s, want %s", tt.phase, got, tt.want)
		}
	}
}
