package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/safedial/internal/app"
	"github.com/bft-labs/safedial/internal/cliconfig"
	"github.com/bft-labs/safedial/pkg/log"
	"github.com/bft-labs/safedial/pkg/state"
)

const longHelp = `
Replay a log of dial rotations and count how often the dial reaches zero.

The dial has a fixed number of positions (100 by default) and starts at 50.
Each line of the input is a direction, L or R, followed by a distance, e.g.
L68 or R14. Every arrival at position 0 is counted, including the ones in the
middle of a rotation that goes round more than once.

Commands:
  run      stream the log through the closed-form engine
  compare  check the closed-form engine against the cycle-accurate model
  watch    re-run compare whenever the log changes

Configuration is read from $HOME/.safedial/config.toml, then SAFEDIAL_*
environment variables, then flags; later sources win.
`

var exampleUsage = strings.TrimSpace(`
  safedial run input.txt
  safedial run --resume --state-dir /var/lib/safedial input.txt
  safedial compare --start 0 --dial-size 1000 input.txt
  safedial watch input.txt
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the configuration shared by every subcommand.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  *log.ZerologAdapter
}

func main() {
	c, root := newRootCommand()
	if err := root.Execute(); err != nil {
		c.logger.Error("safedial", log.Err(err))
		os.Exit(1)
	}
}

func newRootCommand() (*cli, *cobra.Command) {
	c := &cli{cfg: cliconfig.DefaultConfig()}
	c.logger = log.NewZerologAdapter(os.Stderr, c.cfg.LogLevel)

	root := &cobra.Command{
		Use:           "safedial",
		Short:         "Count zero crossings of a rotating dial",
		Long:          strings.TrimSpace(longHelp),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.safedial/config.toml)")
	pf.StringVar(&c.cfg.InputPath, "input", "", "command log to read (may also be given as an argument)")
	pf.Int64Var(&c.cfg.DialSize, "dial-size", c.cfg.DialSize, "number of positions on the dial")
	pf.Int64Var(&c.cfg.StartPosition, "start", c.cfg.StartPosition, "position after reset")
	pf.IntVar(&c.cfg.ProgressEvery, "progress", c.cfg.ProgressEvery, "log progress every n commands (0 disables)")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(c.runCommand(), c.compareCommand(), c.watchCommand())
	return c, root
}

// load layers the config file and environment under any flags that were set,
// then validates.
func (c *cli) load(cmd *cobra.Command, args []string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if len(args) > 0 {
		c.cfg.InputPath = args[0]
		changed["input"] = true
	}

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.logger = log.NewZerologAdapter(os.Stderr, c.cfg.LogLevel).With(log.String("input", c.cfg.InputPath))
	c.logger.Debug("configuration", log.Any("config", c.cfg))
	return nil
}

func (c *cli) runner(withState bool) *app.Runner {
	var repo state.Repository
	if withState && c.cfg.StateDir != "" {
		repo = state.NewFileRepository(c.cfg.StateDir)
	}
	return app.NewRunner(app.Config{
		InputPath:     c.cfg.InputPath,
		DialSize:      c.cfg.DialSize,
		StartPosition: c.cfg.StartPosition,
		ProgressEvery: c.cfg.ProgressEvery,
		UnitStepLimit: c.cfg.UnitStepLimit,
		HistoryDepth:  c.cfg.HistoryDepth,
		ResetCycles:   c.cfg.ResetCycles,
		Debounce:      c.cfg.Debounce,
		Resume:        c.cfg.Resume,
	}, repo, c.logger)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
