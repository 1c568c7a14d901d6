package interp

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/regloop/vm"
)

func assertArity(node *vm.Node) error {
	n, ok := node.Op.Arity()
	if ok && len(node.Args) != n {
		return errArity(node, n)
	}
	return nil
}

// Step executes a single node against the top scope of s. Nested bodies are
// run through s.Run, so faults inside them are reported there and never
// reach the caller of Step.
func Step(s *State, node *vm.Node) error {
	s.Counters.Instructions++
	log.Trace().
		Str("opcode", node.Op.String()).
		Str("name", node.Name).
		Strs("args", node.Args).
		Int("line", node.Line).
		Int("depth", len(s.blocks)).
		Msg("Step: executing instruction")

	if err := assertArity(node); err != nil {
		return err
	}
	regs := s.Registers()

	switch node.Op {
	case vm.ZERO:
		regs.Store(node.Args[0], 0)
		log.Trace().Str("register", node.Args[0]).Msg("  ZERO")
	case vm.INCR:
		v, err := s.read(node.Args[0])
		if err != nil {
			return err
		}
		regs.Store(node.Args[0], v.Inc())
		log.Trace().Str("register", node.Args[0]).Uint64("value", uint64(v.Inc())).Msg("  INCR")
	case vm.ASGN:
		v, err := s.read(node.Args[1])
		if err != nil {
			return err
		}
		regs.Store(node.Args[0], v)
		log.Trace().Str("dest", node.Args[0]).Str("source", node.Args[1]).Uint64("value", uint64(v)).Msg("  ASGN")
	case vm.PRNT:
		v, err := s.read(node.Args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(s.Out, v)
		log.Trace().Str("register", node.Args[0]).Uint64("value", uint64(v)).Msg("  PRNT")
	case vm.LOOP:
		count, err := s.read(node.Args[0])
		if err != nil {
			return err
		}
		log.Trace().Str("register", node.Args[0]).Uint64("count", uint64(count)).Msg("  LOOP")
		s.enter(node.Name)
		for i := vm.Value(0); i < count; i++ {
			s.Run(node.Body)
		}
		s.leave()
	case vm.DEF:
		return s.define(node)
	case vm.CALL:
		return s.call(node)
	default:
		panic(fmt.Sprintf("unhandled opcode %s", node.Op))
	}
	return nil
}
