package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/regloop/cas"
	"github.com/timewinder-dev/regloop/model"
)

var traceCmd = &cobra.Command{
	Use:   "trace PROGRAM|CONFIG",
	Short: "Execute a program one top-level instruction at a time",
	Long: `Execute the top-level instructions of a program one at a time and print a
table of the output, registers and state fingerprint after each of them.`,
	Args: cobra.ExactArgs(1),
	Run:  traceCommand,
}

var cacheSize int

func init() {
	traceCmd.Flags().IntVar(&cacheSize, "cache-size", 1000, "Number of decoded states kept in memory")
	addInterpreterFlags(traceCmd)
}

func traceCommand(cmd *cobra.Command, args []string) {
	store := cas.NewLRUCache(cas.NewMemoryCAS(), cacheSize)
	exec, _ := loadExecutor(cmd, args[0], store)
	if err := exec.Initialize(os.Stdout); err != nil {
		fatal(err, "Couldn't init executor")
	}

	var steps []model.TraceStep
	result, err := exec.Trace(func(s model.TraceStep) {
		steps = append(steps, s)
	})
	if err != nil {
		fatal(err, "Error while tracing program")
	}
	stats := store.Stats()
	log.Debug().Int("cached", stats.Size).Int("max", stats.MaxSize).Int("stored", store.Len()).Msg("Trace: state cache")
	fmt.Println(model.RenderTrace(steps))
	fmt.Fprint(os.Stderr, model.FormatFaults(result.Faults))
	fmt.Fprint(os.Stderr, model.FormatStatistics(result.Statistics))
}
