package dial

import (
	"errors"
	"testing"
)

func commands(t *testing.T, ss ...string) []Command {
	t.Helper()
	out := make([]Command, 0, len(ss))
	for _, s := range ss {
		dir, err := ParseDirection(s[0])
		if err != nil {
			t.Fatalf("bad test command %q: %v", s, err)
		}
		var n int64
		for _, c := range s[1:] {
			n = n*10 + int64(c-'0')
		}
		out = append(out, Command{Direction: dir, Distance: n})
	}
	return out
}

type step struct {
	pos      int64
	count    uint64
	landings uint64
}

var scenarios = []struct {
	name    string
	initial int64
	cmds    []string
	want    []step
}{
	{
		name:    "example sequence",
		initial: 50,
		cmds:    []string{"L68", "L30", "R48", "L5", "R60", "L55", "L1", "L99", "R14", "L82"},
		want: []step{
			{82, 1, 0}, {52, 1, 0}, {0, 2, 1}, {95, 2, 1}, {55, 3, 1},
			{0, 4, 2}, {99, 4, 2}, {0, 5, 3}, {14, 5, 3}, {32, 6, 3},
		},
	},
	{
		name:    "sequential zeros",
		initial: 50,
		cmds:    []string{"L50", "R100", "L100"},
		want:    []step{{0, 1, 1}, {0, 2, 2}, {0, 3, 3}},
	},
	{
		name:    "basic rotations",
		initial: 50,
		cmds:    []string{"R8", "L30"},
		want:    []step{{58, 0, 0}, {28, 0, 0}},
	},
	{
		name:    "wrap around",
		initial: 50,
		cmds:    []string{"L45", "L10", "R10"},
		want:    []step{{5, 0, 0}, {95, 1, 0}, {5, 2, 0}},
	},
	{
		name:    "landing on zero",
		initial: 50,
		cmds:    []string{"L50", "R25", "L25"},
		want:    []step{{0, 1, 1}, {25, 1, 1}, {0, 2, 2}},
	},
}

func TestEngine_Scenarios(t *testing.T) {
	e := Engine{Size: DefaultSize}
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			s, err := e.Reset(sc.initial)
			if err != nil {
				t.Fatalf("Reset() error: %v", err)
			}
			for i, cmd := range commands(t, sc.cmds...) {
				s, err = e.Apply(s, cmd)
				if err != nil {
					t.Fatalf("Apply(%s) error: %v", cmd, err)
				}
				w := sc.want[i]
				if s != (State{Position: w.pos, ZeroCount: w.count, Landings: w.landings}) {
					t.Errorf("step %d %s: got %v, want position=%d zero_count=%d landings=%d",
						i+1, cmd, s, w.pos, w.count, w.landings)
				}
			}
		})
	}
}

// Staying on zero is not a landing.
func TestEngine_StationaryAtZero(t *testing.T) {
	e := Engine{Size: DefaultSize}
	s, _ := e.Reset(0)

	s, err := e.Apply(s, Command{Direction: Right, Distance: 0})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if s != (State{}) {
		t.Errorf("R0 at zero = %v, want all zero", s)
	}

	s, _ = e.Apply(s, Command{Direction: Right, Distance: DefaultSize})
	if s != (State{Position: 0, ZeroCount: 1, Landings: 1}) {
		t.Errorf("R100 at zero = %v, want one visit and one landing", s)
	}
}

func TestEngine_Reset(t *testing.T) {
	e := Engine{Size: DefaultSize}

	for _, x := range []int64{0, 1, 50, 99} {
		s, err := e.Reset(x)
		if err != nil {
			t.Fatalf("Reset(%d) error: %v", x, err)
		}
		if s != (State{Position: x}) {
			t.Errorf("Reset(%d) = %v, want position=%d zero_count=0", x, s, x)
		}
	}

	for _, x := range []int64{-1, 100, 1000} {
		if _, err := e.Reset(x); !errors.Is(err, ErrInvalidInitialPosition) {
			t.Errorf("Reset(%d) error = %v, want ErrInvalidInitialPosition", x, err)
		}
	}

	if _, err := (Engine{}).Reset(0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero-size Reset error = %v, want ErrInvalidSize", err)
	}
}

func TestEngine_ApplyInvalidKeepsState(t *testing.T) {
	e := Engine{Size: DefaultSize}
	s := State{Position: 10, ZeroCount: 4}

	got, err := e.Apply(s, Command{Direction: Right, Distance: -5})
	if !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("Apply() error = %v, want ErrInvalidCommand", err)
	}
	if got != s {
		t.Errorf("state changed to %v on invalid command", got)
	}
}

func TestEngine_MonotonicAndDeterministic(t *testing.T) {
	e := Engine{Size: DefaultSize}
	cmds := commands(t, "R1000", "L3", "L97", "R0", "L250", "R199", "L1", "R1")

	run := func() State {
		s, _ := e.Reset(DefaultStart)
		prev := s.ZeroCount
		for _, cmd := range cmds {
			var err error
			s, err = e.Apply(s, cmd)
			if err != nil {
				t.Fatalf("Apply(%s) error: %v", cmd, err)
			}
			if s.ZeroCount < prev {
				t.Fatalf("zero count decreased from %d to %d", prev, s.ZeroCount)
			}
			prev = s.ZeroCount
		}
		return s
	}

	first := run()
	for i := 0; i < 3; i++ {
		if again := run(); again != first {
			t.Fatalf("replay %d = %v, want %v", i, again, first)
		}
	}
}

func TestDirection_String(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{Left, "L"},
		{Right, "R"},
		{Direction(9), "Direction(9)"},
	}
	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %s, want %s", tt.dir, got, tt.want)
		}
	}

	if got := (Command{Left, 68}).String(); got != "L68" {
		t.Errorf("Command.String() = %s, want L68", got)
	}
}
