package vm

import "strconv"

// Value is the content of a register. Registers only ever hold non-negative
// integers.
type Value uint64

func (v Value) String() string {
	return strconv.FormatUint(uint64(v), 10)
}

// Inc returns v+1. Values wrap to 0 past math.MaxUint64.
func (v Value) Inc() Value {
	return v + 1
}
