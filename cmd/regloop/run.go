package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"github.com/timewinder-dev/regloop/model"
)

var (
	statsFlag    bool
	noEchoFlag   bool
	dumpFlag     bool
	debugFlag    bool
	isolateCalls bool
	maxCallDepth int
)

var runCmd = &cobra.Command{
	Use:   "run PROGRAM|CONFIG",
	Short: "Print and execute a program",
	Long: `Print the parsed program back in canonical form and then execute it.
The argument is either a .rl program or a .toml/.yaml config naming one.`,
	Args: cobra.ExactArgs(1),
	Run:  runCommand,
}

func init() {
	runCmd.Flags().BoolVar(&statsFlag, "stats", false, "Print run statistics and fault locations to stderr")
	runCmd.Flags().BoolVar(&noEchoFlag, "no-echo", false, "Don't print the program before running it")
	runCmd.Flags().BoolVar(&dumpFlag, "dump", false, "Print the final registers to stderr")
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "Print the parsed tree and final state to stderr")
	addInterpreterFlags(runCmd)
}

func addInterpreterFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&isolateCalls, "isolate-calls", false, "Give each procedure call its own register scope")
	cmd.Flags().IntVar(&maxCallDepth, "max-call-depth", 0, "Fault calls nested deeper than this (0 is unbounded)")
}

func runCommand(cmd *cobra.Command, args []string) {
	exec, cfg := loadExecutor(cmd, args[0], nil)
	if noEchoFlag {
		cfg.Output.EchoProgram = false
	}
	if statsFlag {
		cfg.Output.Statistics = true
	}
	if debugFlag {
		exec.Program.DebugPrint(os.Stderr)
	}

	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { out.Flush() })
	if err := exec.Initialize(out); err != nil {
		fatal(err, "Couldn't init executor")
	}
	if cfg.Output.Statistics {
		exec.Reporter = &model.ColorReporter{Writer: os.Stderr}
	}

	result, err := exec.Run()
	if err != nil {
		fatal(err, "Error while running program")
	}
	if err := out.Flush(); err != nil {
		fatal(err, "Couldn't write program output")
	}

	if cfg.Output.Statistics {
		fmt.Fprint(os.Stderr, model.FormatFaults(result.Faults))
		fmt.Fprint(os.Stderr, model.FormatStatistics(result.Statistics))
	}
	if dumpFlag {
		fmt.Fprintln(os.Stderr, model.RenderRegisters(exec.State))
	}
	if debugFlag {
		fmt.Fprint(os.Stderr, exec.State.PrettyPrint())
	}
}
