package main

import (
	"github.com/spf13/cobra"

	"github.com/bft-labs/safedial/pkg/conformance"
	"github.com/bft-labs/safedial/pkg/log"
)

func (c *cli) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [input]",
		Short: "Re-run compare whenever the log changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd, args); err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			out := cmd.OutOrStdout()
			return c.runner(false).Watch(ctx, func(res conformance.Result, err error) {
				if err != nil {
					c.logger.Error("comparison failed", log.Err(err))
					return
				}
				printResult(out, res)
			})
		},
	}
	c.conformanceFlags(cmd)
	cmd.Flags().DurationVar(&c.cfg.Debounce, "debounce", c.cfg.Debounce, "wait this long after the last change before re-running")
	return cmd
}
