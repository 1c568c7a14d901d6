package vm

type Opcode uint32

const (
	// ARGS | BODY | EFFECT
	CALL Opcode = iota // params... | | runs a DEF'd body against the current scope
	ZERO               // R | | R = 0
	INCR               // R | | R = R + 1
	ASGN               // D S | | D = S
	PRNT               // R | | writes R
	LOOP               // R | body | runs body R times, R read once at entry
	DEF                // NAME P1 P2 ... | body | registers procedure NAME

	OpcodeMax
)

// keywords maps source tokens to built-in opcodes. Anything else is a CALL.
var keywords = map[string]Opcode{
	"ZERO": ZERO,
	"INCR": INCR,
	"ASGN": ASGN,
	"PRNT": PRNT,
	"LOOP": LOOP,
	"DEF":  DEF,
}

// LookupOpcode classifies a source token.
func LookupOpcode(name string) Opcode {
	if op, ok := keywords[name]; ok {
		return op
	}
	return CALL
}

// Arity returns the fixed argument count of a built-in opcode. DEF and CALL
// are variadic and report ok == false.
func (o Opcode) Arity() (n int, ok bool) {
	switch o {
	case ZERO, INCR, PRNT, LOOP:
		return 1, true
	case ASGN:
		return 2, true
	}
	return 0, false
}

// IsBlock reports whether the opcode owns a body.
func (o Opcode) IsBlock() bool {
	return o == LOOP || o == DEF
}

func (o Opcode) String() string {
	switch o {
	case CALL:
		return "CALL"
	case ZERO:
		return "ZERO"
	case INCR:
		return "INCR"
	case ASGN:
		return "ASGN"
	case PRNT:
		return "PRNT"
	case LOOP:
		return "LOOP"
	case DEF:
		return "DEF"
	}
	panic("Unnamed opcode")
}
