package model

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/regloop/cas"
	"github.com/timewinder-dev/regloop/interp"
	"github.com/timewinder-dev/regloop/vm"
)

// An Executor is the context and entrypoint for running a program
type Executor struct {
	Program  *vm.Program
	Config   *Config
	State    *interp.State
	CAS      cas.CAS
	RunID    string
	Out      io.Writer
	Reporter Reporter

	seen map[cas.Hash]bool // states reached by this run
}

type Result struct {
	Faults     []interp.Fault
	Statistics Statistics
}

type Statistics struct {
	Instructions int
	Calls        int
	Faults       int
	Procedures   int
	MaxDepth     int
	UniqueStates int
}

// Initialize builds a fresh interpreter state writing program output to out.
func (e *Executor) Initialize(out io.Writer) error {
	if e.Program == nil || e.Config == nil {
		return errors.New("executor has no program")
	}
	if out == nil {
		out = io.Discard
	}
	if e.Reporter == nil {
		e.Reporter = &SilentReporter{}
	}
	e.Out = out
	e.RunID = uuid.NewString()
	e.State = interp.NewState(out, e.Config.Options())
	e.seen = make(map[cas.Hash]bool)
	return nil
}

// Run echoes the program if configured and then executes it to the end.
func (e *Executor) Run() (*Result, error) {
	if e.State == nil {
		return nil, errors.New("executor is not initialized")
	}
	log.Info().Str("run", e.RunID).Str("file", e.Config.Program.File).Int("instructions", len(e.Program.Main)).Msg("Starting run")
	if e.Config.Output.EchoProgram {
		if _, err := fmt.Fprintln(e.Out, e.Program.String()); err != nil {
			return nil, err
		}
	}
	e.Reporter.Printf("Running %s...\n", e.Config.Program.File)
	for i, node := range e.Program.Main {
		e.State.Execute(i, node)
		if _, _, err := e.record(); err != nil {
			return nil, err
		}
	}
	res := e.result()
	log.Info().Str("run", e.RunID).Int("faults", res.Statistics.Faults).Int("instructions", res.Statistics.Instructions).Msg("Run finished")
	return res, nil
}

// record fingerprints the state after a top-level instruction, storing it
// in the CAS when the store doesn't hold it yet. isNew is false when this
// run reached the state before.
func (e *Executor) record() (h cas.Hash, isNew bool, err error) {
	snap := e.State.Snapshot()
	h, err = cas.Fingerprint(snap)
	if err != nil {
		return 0, false, fmt.Errorf("fingerprinting state: %w", err)
	}
	if !e.CAS.Has(h) {
		if _, err := e.CAS.Put(snap); err != nil {
			return 0, false, fmt.Errorf("storing state: %w", err)
		}
	}
	if e.seen[h] {
		return h, false, nil
	}
	e.seen[h] = true
	return h, true, nil
}

func (e *Executor) result() *Result {
	c := e.State.Counters
	return &Result{
		Faults: e.State.Faults,
		Statistics: Statistics{
			Instructions: c.Instructions,
			Calls:        c.Calls,
			Faults:       len(e.State.Faults),
			Procedures:   len(e.State.Procedures),
			MaxDepth:     c.MaxDepth,
			UniqueStates: len(e.seen),
		},
	}
}
