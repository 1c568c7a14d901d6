package interp

import (
	"maps"
	"slices"

	"github.com/timewinder-dev/regloop/vm"
)

// ScopeFrame holds the registers visible to the executing instruction.
type ScopeFrame struct {
	Registers map[string]vm.Value
}

func (f *ScopeFrame) Store(name string, value vm.Value) {
	if f.Registers == nil {
		f.Registers = make(map[string]vm.Value)
	}
	f.Registers[name] = value
}

func (f *ScopeFrame) Load(name string) (vm.Value, bool) {
	v, ok := f.Registers[name]
	return v, ok
}

func (f *ScopeFrame) Has(name string) bool {
	_, ok := f.Registers[name]
	return ok
}

// Names returns the register names in sorted order.
func (f *ScopeFrame) Names() []string {
	return slices.Sorted(maps.Keys(f.Registers))
}

type ScopeFrames []*ScopeFrame

func (s *ScopeFrames) PopScope() *ScopeFrame {
	f := s.CurrentScope()
	*s = (*s)[:len(*s)-1]
	return f
}

func (s *ScopeFrames) Append(f *ScopeFrame) {
	*s = append(*s, f)
}

func (s ScopeFrames) CurrentScope() *ScopeFrame {
	return s[len(s)-1]
}

// Procedure is a DEF'd instruction sequence. Params are the declared names;
// they only fix the arity of calls and are never bound to arguments.
type Procedure struct {
	Name   string
	Params []string
	Body   []*vm.Node
}

// Options changes how procedure calls behave. The zero value matches the
// language as written: calls share the caller's scope and recursion is
// unbounded.
type Options struct {
	// IsolateCalls pushes an empty scope for every procedure call and pops
	// it on return.
	IsolateCalls bool
	// MaxCallDepth faults calls nested deeper than this. Zero disables the
	// check and recursion is limited by the Go stack.
	MaxCallDepth int
}
