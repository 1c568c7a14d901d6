package interp

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/regloop/vm"
)

// Run executes block in order. A fault stops only the node that raised it:
// it is reported with the node's position in block and the next sibling runs.
func (s *State) Run(block []*vm.Node) {
	for i, node := range block {
		s.Execute(i, node)
	}
}

// Execute runs node, the index-th (zero-based) entry of the sequence being
// walked, and reports any fault it raises. The reported fault is returned so
// that callers stepping through a program can inspect it.
func (s *State) Execute(index int, node *vm.Node) *Fault {
	err := Step(s, node)
	if err == nil {
		return nil
	}
	var ie *InterpretError
	if !errors.As(err, &ie) {
		ie = &InterpretError{Message: err.Error()}
	}
	f := Fault{
		Index: index + 1,
		Depth: len(s.blocks),
		Line:  node.Line,
		Err:   ie,
	}
	if f.Depth > 0 {
		f.Block = s.blocks[len(s.blocks)-1]
	}
	s.report(f)
	return &f
}

func (s *State) report(f Fault) {
	s.Faults = append(s.Faults, f)
	log.Debug().
		Int("index", f.Index).
		Int("depth", f.Depth).
		Str("block", f.Block).
		Int("line", f.Line).
		Str("fault", f.Err.Message).
		Msg("Fault")
	fmt.Fprintln(s.Out, f.String())
}

func (s *State) enter(block string) {
	s.blocks = append(s.blocks, block)
	if len(s.blocks) > s.Counters.MaxDepth {
		s.Counters.MaxDepth = len(s.blocks)
	}
}

func (s *State) leave() {
	s.blocks = s.blocks[:len(s.blocks)-1]
}
