package interp

import (
	"fmt"
	"strings"

	"github.com/timewinder-dev/regloop/vm"
)

// InterpretError is the only error raised while walking the tree.
type InterpretError struct {
	Message string
}

func (e *InterpretError) Error() string {
	return e.Message
}

func faultf(format string, args ...any) error {
	return &InterpretError{Message: fmt.Sprintf(format, args...)}
}

// formatArgs renders an argument list as ['A', 'B'].
func formatArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = "'" + a + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func errArity(node *vm.Node, expected int) error {
	return faultf("Incorrect number of args for %s, expected %d", formatArgs(node.Args), expected)
}

func errNoRegister(name string) error {
	return faultf("Register %s not present in registers", name)
}

func errNoFunction(name string) error {
	return faultf("No function found %s", name)
}

func errCallDepth(limit int, name string) error {
	return faultf("Maximum call depth %d exceeded calling %s", limit, name)
}

// Fault is a reported InterpretError. Index is one-based and counts within
// the instruction sequence that contained the failing node, not within the
// whole program: a fault in the third instruction of a loop body reports 3
// whatever the position of the LOOP itself. Depth and Block identify that
// sequence.
type Fault struct {
	Index int
	Depth int
	Block string
	Line  int
	Err   *InterpretError
}

func (f Fault) String() string {
	return fmt.Sprintf("Error %d: %s", f.Index, f.Err.Message)
}
