package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bft-labs/safedial/pkg/conformance"
)

func (c *cli) conformanceFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&c.cfg.UnitStepLimit, "unit-step-limit", c.cfg.UnitStepLimit, "also check distances up to n with a unit-step simulation (0 disables)")
	cmd.Flags().IntVar(&c.cfg.HistoryDepth, "history", c.cfg.HistoryDepth, "preceding rotations to show on a mismatch")
	cmd.Flags().IntVar(&c.cfg.ResetCycles, "reset-cycles", c.cfg.ResetCycles, "clock edges to hold the clocked model in reset")
}

func (c *cli) compareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input]",
		Short: "Check the closed-form engine against the cycle-accurate model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd, args); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			res, err := c.runner(false).Compare(ctx)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			if !res.Passed {
				return res.Mismatch.Err()
			}
			return nil
		},
	}
	c.conformanceFlags(cmd)
	return cmd
}

func printResult(w io.Writer, res conformance.Result) {
	if !res.Passed {
		m := res.Mismatch
		fmt.Fprintf(w, "FAIL %s\n", m.Summary())
		if len(m.History) > 0 {
			fmt.Fprintf(w, "previous rotations: %s\n", m.HistoryString())
		}
		return
	}

	fmt.Fprintf(w, "PASS position %d zero_count %d landings %d\n",
		res.Final.Position, res.Final.ZeroCount, res.Final.Landings)

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%d rotations, %.0f rotations/s", res.Stats.Commands, res.Stats.CommandsPerSecond())
	if res.Stats.Cycles > 0 {
		p.Fprintf(w, ", %d cycles (%.2f rotations/cycle)", res.Stats.Cycles, res.Stats.CommandsPerCycle())
	}
	fmt.Fprintln(w)
}
