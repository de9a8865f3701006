// Package conformance replays a command sequence through two independent
// dial implementations and checks that they agree after every command.
//
// By default the closed-form [dial.Reference] is compared with the
// cycle-accurate [dial.Clocked] model. Commands with small distances are also
// replayed one unit at a time with [dial.UnitStep] as a third opinion.
//
// The first disagreement ends the run; once two trajectories differ every
// later comparison is meaningless. The disagreement is reported as a
// [Mismatch] value in the [Result], together with the commands that led up
// to it.
package conformance
