package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/safedial/pkg/conformance"
	"github.com/bft-labs/safedial/pkg/dial"
	"github.com/bft-labs/safedial/pkg/state"
)

const exampleLog = "L68\nL30\nR48\nL5\nR60\nL55\nL1\nL99\nR14\nL82\n"

func testConfig(input string) Config {
	return Config{
		InputPath:     input,
		DialSize:      dial.DefaultSize,
		StartPosition: dial.DefaultStart,
		ProgressEvery: 3,
		UnitStepLimit: 1000,
		HistoryDepth:  3,
		ResetCycles:   5,
		Debounce:      20 * time.Millisecond,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	writeFile(t, input, exampleLog)

	repo := state.NewFileRepository(filepath.Join(dir, "state"))
	report, err := NewRunner(testConfig(input), repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := dial.State{Position: 32, ZeroCount: 6, Landings: 3}
	if report.Final != want || report.Processed != 10 || report.Resumed {
		t.Errorf("report = %+v, want final %v after 10 commands", report, want)
	}

	cp, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cp.Processed != 10 || cp.Dial != want || cp.Offset != int64(len(exampleLog)) {
		t.Errorf("checkpoint = %+v", cp)
	}
}

func TestRunner_Resume(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	lines := strings.SplitAfter(exampleLog, "\n")
	writeFile(t, input, strings.Join(lines[:4], ""))

	repo := state.NewFileRepository(filepath.Join(dir, "state"))
	cfg := testConfig(input)
	cfg.Resume = true

	first, err := NewRunner(cfg, repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if first.Processed != 4 || first.Resumed {
		t.Fatalf("first run = %+v", first)
	}

	writeFile(t, input, exampleLog)
	second, err := NewRunner(cfg, repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if !second.Resumed {
		t.Error("second run did not resume")
	}
	if want := (dial.State{Position: 32, ZeroCount: 6, Landings: 3}); second.Final != want || second.Processed != 10 {
		t.Errorf("resumed run = %+v, want %v after 10", second, want)
	}
}

func TestRunner_ResumeAfterLogRewritten(t *testing.T) {
	prefix := "L68\nL30\nR48\nL5\n"

	tests := []struct {
		name    string
		rewrite string
		want    dial.State
	}{
		{
			name:    "truncated",
			rewrite: "R50\n",
			want:    dial.State{Position: 0, ZeroCount: 1, Landings: 1},
		},
		{
			name:    "same length",
			rewrite: "R68\nL30\nR48\nL5\n",
			want:    dial.State{Position: 31, ZeroCount: 3, Landings: 0},
		},
		{
			name:    "same length then appended",
			rewrite: "R68\nL30\nR48\nL5\nR69\n",
			want:    dial.State{Position: 0, ZeroCount: 4, Landings: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "input.txt")
			writeFile(t, input, prefix)

			repo := state.NewFileRepository(filepath.Join(dir, "state"))
			cfg := testConfig(input)
			cfg.Resume = true
			cfg.ProgressEvery = 1

			if _, err := NewRunner(cfg, repo, nil).Run(context.Background()); err != nil {
				t.Fatalf("first Run() error: %v", err)
			}

			writeFile(t, input, tt.rewrite)
			report, err := NewRunner(cfg, repo, nil).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() after rewrite error: %v", err)
			}
			if report.Resumed {
				t.Error("run resumed from a checkpoint of the old log")
			}
			if report.Final != tt.want {
				t.Errorf("final = %v, want %v", report.Final, tt.want)
			}

			// the fresh run's checkpoint is valid for the new content
			again, err := NewRunner(cfg, repo, nil).Run(context.Background())
			if err != nil {
				t.Fatalf("third Run() error: %v", err)
			}
			if !again.Resumed || again.Final != tt.want {
				t.Errorf("third run = %+v, want resumed at %v", again, tt.want)
			}
		})
	}
}

func TestRunner_ResumeIgnoresForeignCheckpoint(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	writeFile(t, input, "R8\nL30\n")

	repo := state.NewFileRepository(filepath.Join(dir, "state"))
	foreign := state.Checkpoint{InputPath: "/elsewhere.txt", DialSize: 100, Initial: 50, Offset: 4, Processed: 1}
	if err := repo.Save(context.Background(), foreign); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(input)
	cfg.Resume = true
	report, err := NewRunner(cfg, repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.Resumed || report.Final != (dial.State{Position: 28}) {
		t.Errorf("report = %+v", report)
	}
}

func TestRunner_RunInvalidLine(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	writeFile(t, input, "L50\nR-3\n")

	repo := state.NewFileRepository(filepath.Join(dir, "state"))
	report, err := NewRunner(testConfig(input), repo, nil).Run(context.Background())
	if !errors.Is(err, dial.ErrInvalidCommand) {
		t.Fatalf("Run() error = %v, want ErrInvalidCommand", err)
	}
	if report.Processed != 1 || report.Final != (dial.State{Position: 0, ZeroCount: 1, Landings: 1}) {
		t.Errorf("report = %+v", report)
	}

	cp, _ := repo.Load(context.Background())
	if cp.Processed != 1 {
		t.Errorf("checkpoint processed = %d, want last good command", cp.Processed)
	}
}

func TestRunner_RunInvalidStart(t *testing.T) {
	cfg := testConfig("unused")
	cfg.StartPosition = 100
	if _, err := NewRunner(cfg, nil, nil).Run(context.Background()); !errors.Is(err, dial.ErrInvalidInitialPosition) {
		t.Errorf("Run() error = %v, want ErrInvalidInitialPosition", err)
	}
}

func TestRunner_Compare(t *testing.T) {
	input := filepath.Join(t.TempDir(), "input.txt")
	writeFile(t, input, exampleLog+"\nR1000000\nL999999\n")

	res, err := NewRunner(testConfig(input), nil, nil).Compare(context.Background())
	if err != nil {
		t.Fatalf("Compare() error: %v", err)
	}
	if !res.Passed || res.Processed != 12 {
		t.Errorf("result = %+v", res)
	}
}

func TestRunner_Watch(t *testing.T) {
	input := filepath.Join(t.TempDir(), "input.txt")
	writeFile(t, input, "R8\n")

	results := make(chan conformance.Result, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- NewRunner(testConfig(input), nil, nil).Watch(ctx, func(res conformance.Result, err error) {
			if err == nil {
				results <- res
			}
		})
	}()

	wait := func() conformance.Result {
		t.Helper()
		select {
		case res := <-results:
			return res
		case <-time.After(5 * time.Second):
			t.Fatal("no comparison result")
			return conformance.Result{}
		}
	}

	if res := wait(); res.Processed != 1 {
		t.Fatalf("initial comparison processed %d, want 1", res.Processed)
	}

	// let the watcher register before changing the file
	time.Sleep(100 * time.Millisecond)
	writeFile(t, input, "R8\nL30\n")

	var res conformance.Result
	for res.Processed != 2 {
		res = wait()
	}
	if res.Final != (dial.State{Position: 28}) {
		t.Errorf("final = %v, want position 28", res.Final)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not return")
	}
}
