package model

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/regloop/cas"
	"github.com/timewinder-dev/regloop/interp"
	"github.com/timewinder-dev/regloop/vm"
)

// TraceStep records the state after one top-level instruction.
type TraceStep struct {
	Index    int
	Node     *vm.Node
	Output   string
	Fault    *interp.Fault
	Snapshot *interp.Snapshot
	Hash     cas.Hash
	New      bool
}

// Trace executes the top-level sequence one instruction at a time. After each
// instruction the register state is fingerprinted into the CAS, read back
// from it, and fn is called with the step. Output produced by the
// instruction, including fault lines, is captured into the step instead of
// the executor's writer.
func (e *Executor) Trace(fn func(TraceStep)) (*Result, error) {
	if e.State == nil {
		return nil, errors.New("executor is not initialized")
	}
	var buf bytes.Buffer
	e.State.Out = &buf
	defer func() { e.State.Out = e.Out }()

	log.Info().Str("run", e.RunID).Str("file", e.Config.Program.File).Msg("Starting trace")
	for i, node := range e.Program.Main {
		buf.Reset()
		fault := e.State.Execute(i, node)
		h, isNew, err := e.record()
		if err != nil {
			return nil, err
		}
		snap, err := cas.Retrieve[interp.Snapshot](e.CAS, h)
		if err != nil {
			return nil, fmt.Errorf("reading back state %s: %w", h, err)
		}
		step := TraceStep{
			Index:    i + 1,
			Node:     node,
			Output:   buf.String(),
			Fault:    fault,
			Snapshot: snap,
			Hash:     h,
			New:      isNew,
		}
		log.Trace().Int("step", step.Index).Str("hash", h.String()).Bool("new", step.New).Msg("Trace: step")
		if fn != nil {
			fn(step)
		}
	}
	return e.result(), nil
}
