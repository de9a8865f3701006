package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bft-labs/safedial/pkg/log"
)

func (c *cli) runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Apply every command in the log and print the final position and zero count",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd, args); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			report, err := c.runner(true).Run(ctx)
			if err != nil {
				return err
			}

			c.logger.Info("run complete",
				log.Uint64("processed", report.Processed),
				log.Bool("resumed", report.Resumed),
				log.Duration("elapsed", report.Elapsed),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "position %d\n", report.Final.Position)
			fmt.Fprintf(out, "zero_count %d\n", report.Final.ZeroCount)
			fmt.Fprintf(out, "landings %d\n", report.Final.Landings)

			p := message.NewPrinter(language.English)
			p.Fprintf(cmd.ErrOrStderr(), "%d rotations in %v\n", report.Processed, report.Elapsed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&c.cfg.Resume, "resume", c.cfg.Resume, "continue from the saved checkpoint")
	cmd.Flags().StringVar(&c.cfg.StateDir, "state-dir", c.cfg.StateDir, "directory for status.json checkpoints")
	return cmd
}
