// Package state persists run checkpoints so a long command log can be resumed.
//
// A [Checkpoint] records how far into a command log a run got and the dial
// state at that point. [FileRepository] stores it as status.json:
//
//	repo := state.NewFileRepository("/var/lib/safedial")
//	cp, err := repo.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	// ... apply more commands ...
//	if err := repo.Save(ctx, cp); err != nil {
//	    return err
//	}
//
// JSON field names are snake_case.
package state
