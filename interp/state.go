package interp

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/regloop/vm"
)

// State is everything a run mutates: the procedure table, the scope stack
// and the faults reported so far. A State is not safe for concurrent use.
type State struct {
	Procedures map[string]*Procedure
	Scopes     ScopeFrames
	Faults     []Fault
	Out        io.Writer
	Options    Options
	Counters   Counters

	blocks    []string // owners of the sequences being executed, innermost last
	callDepth int
}

// Counters are bumped as the tree is walked.
type Counters struct {
	Instructions int
	Calls        int
	MaxDepth     int
}

func NewState(out io.Writer, opts Options) *State {
	if out == nil {
		out = io.Discard
	}
	return &State{
		Procedures: make(map[string]*Procedure),
		Scopes:     ScopeFrames{&ScopeFrame{}},
		Out:        out,
		Options:    opts,
	}
}

// Registers is the scope every instruction reads and writes.
func (s *State) Registers() *ScopeFrame {
	return s.Scopes.CurrentScope()
}

func (s *State) read(name string) (vm.Value, error) {
	v, ok := s.Registers().Load(name)
	if !ok {
		return 0, errNoRegister(name)
	}
	return v, nil
}

// Snapshot is a deterministic, serializable view of a State. Registers are
// kept as parallel sorted lists so equal states encode to equal bytes.
type Snapshot struct {
	Names      []string
	Values     []vm.Value
	Procedures []string
	ScopeDepth int
}

func (s *State) Snapshot() *Snapshot {
	regs := s.Registers()
	names := regs.Names()
	values := make([]vm.Value, len(names))
	for i, n := range names {
		values[i] = regs.Registers[n]
	}
	return &Snapshot{
		Names:      names,
		Values:     values,
		Procedures: slices.Sorted(maps.Keys(s.Procedures)),
		ScopeDepth: len(s.Scopes),
	}
}

func (sn *Snapshot) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, sn)
}

func (sn *Snapshot) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, sn)
}

func (sn *Snapshot) Registers() map[string]vm.Value {
	out := make(map[string]vm.Value, len(sn.Names))
	for i, n := range sn.Names {
		out[n] = sn.Values[i]
	}
	return out
}

// FormatRegisters renders registers as `A=1 B=0`, sorted by name.
func (sn *Snapshot) FormatRegisters() string {
	regs := sn.Registers()
	if len(regs) == 0 {
		return "(none)"
	}
	var parts []string
	for _, n := range slices.Sorted(maps.Keys(regs)) {
		parts = append(parts, fmt.Sprintf("%s=%s", n, regs[n]))
	}
	return strings.Join(parts, " ")
}

// PrettyPrint returns a multi-line description of the state.
func (s *State) PrettyPrint() string {
	var b strings.Builder
	b.WriteString("Registers:\n")
	for depth, f := range s.Scopes {
		if len(s.Scopes) > 1 {
			fmt.Fprintf(&b, "  Scope %d:\n", depth)
		}
		names := f.Names()
		if len(names) == 0 {
			b.WriteString("    (none)\n")
		}
		for _, n := range names {
			fmt.Fprintf(&b, "    %s = %s\n", n, f.Registers[n])
		}
	}
	b.WriteString("Procedures:\n")
	if len(s.Procedures) == 0 {
		b.WriteString("    (none)\n")
	}
	for _, name := range slices.Sorted(maps.Keys(s.Procedures)) {
		p := s.Procedures[name]
		fmt.Fprintf(&b, "    %s(%s) [%d instructions]\n", name, strings.Join(p.Params, ","), len(p.Body))
	}
	return b.String()
}
