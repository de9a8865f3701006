// Package commandlog reads rotation commands from plain-text logs.
//
// A command log holds one command per line: a direction letter, L or R,
// immediately followed by a non-negative decimal distance. Blank lines are
// skipped.
//
//	L68
//	R14
//
// [Reader] streams commands and tracks its byte offset and line number so a
// run can resume where it stopped. [Follower] watches a log for changes.
package commandlog
