package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"github.com/timewinder-dev/regloop/cas"
	"github.com/timewinder-dev/regloop/model"
)

var (
	logLevel string
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "regloop",
	Short: "Interpreter for a block-structured register machine language",
	Long: `regloop runs programs made of register instructions (ZERO, INCR, ASGN, PRNT),
LOOP blocks and DEF'd procedures, one instruction per line.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'warn'\n", logLevel)
			level = zerolog.WarnLevel
		}
		zerolog.SetGlobalLevel(level)
		if noColor {
			color.Disable()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Set log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output on stderr")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(fmtCmd)
}

// fatal logs err and exits through atexit so registered flushes still run.
func fatal(err error, msg string) {
	log.Error().Err(err).Msg(msg)
	atexit.Exit(1)
}

// loadExecutor resolves path (program or config file) into an initialized
// executor, applying command line overrides on top of the configuration.
func loadExecutor(cmd *cobra.Command, path string, store cas.CAS) (*model.Executor, *model.Config) {
	cfg, err := model.LoadConfig(path)
	if err != nil {
		fatal(err, "Couldn't load config")
	}
	flags := cmd.Flags()
	if flags.Changed("isolate-calls") {
		cfg.Interpreter.IsolateCalls = isolateCalls
	}
	if flags.Changed("max-call-depth") {
		cfg.Interpreter.MaxCallDepth = maxCallDepth
	}
	if !cfg.Output.Color {
		color.Disable()
	}
	exec, err := cfg.BuildExecutor(store)
	if err != nil {
		fatal(err, "Couldn't build executor for program")
	}
	return exec, cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
