package interp

import (
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/regloop/vm"
)

// define registers the procedure described by a DEF node, replacing any
// earlier procedure of the same name.
func (s *State) define(node *vm.Node) error {
	if len(node.Args) == 0 {
		return faultf("Incorrect number of args for %s, expected at least 1", formatArgs(node.Args))
	}
	name := node.Args[0]
	if _, exists := s.Procedures[name]; exists {
		log.Trace().Str("procedure", name).Msg("  DEF: replacing earlier definition")
	}
	if vm.LookupOpcode(name) != vm.CALL {
		log.Debug().Str("procedure", name).Msg("DEF shadows a built-in opcode and can never be called")
	}
	s.Procedures[name] = &Procedure{
		Name:   name,
		Params: slices.Clone(node.Args[1:]),
		Body:   node.Body,
	}
	log.Trace().Str("procedure", name).Strs("params", node.Args[1:]).Int("body", len(node.Body)).Msg("  DEF")
	return nil
}

// call runs a procedure body. The declared parameters only fix the number of
// arguments; the body sees the caller's registers (or an empty scope when
// Options.IsolateCalls is set) and the arguments are not bound to anything.
func (s *State) call(node *vm.Node) error {
	proc, ok := s.Procedures[node.Name]
	if !ok {
		return errNoFunction(node.Name)
	}
	if len(node.Args) != len(proc.Params) {
		return errArity(node, len(proc.Params))
	}
	if limit := s.Options.MaxCallDepth; limit > 0 && s.callDepth >= limit {
		return errCallDepth(limit, node.Name)
	}

	isolate := s.Options.IsolateCalls
	s.Counters.Calls++
	s.callDepth++
	if isolate {
		s.Scopes.Append(&ScopeFrame{})
	}
	log.Trace().Str("procedure", proc.Name).Strs("args", node.Args).Int("call_depth", s.callDepth).Bool("isolated", isolate).Msg("  CALL")

	s.enter(proc.Name)
	s.Run(proc.Body)
	s.leave()

	if isolate {
		s.Scopes.PopScope()
	}
	s.callDepth--
	return nil
}
