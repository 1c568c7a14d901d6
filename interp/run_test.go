package interp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/regloop/vm"
)

func runCode(t *testing.T, code string, opts Options) (*State, string) {
	t.Helper()
	var out bytes.Buffer
	s := NewState(&out, opts)
	s.Run(vm.CompileLiteral(code).Main)
	return s, out.String()
}

func register(t *testing.T, s *State, name string) vm.Value {
	t.Helper()
	v, ok := s.Registers().Load(name)
	require.True(t, ok, "register %s not set", name)
	return v
}

func TestIncrementAndPrint(t *testing.T) {
	_, out := runCode(t, "ZERO(A)\nINCR(A)\nINCR(A)\nPRNT(A)", Options{})
	assert.Equal(t, "2\n", out)
}

func TestReadUnsetRegister(t *testing.T) {
	s, out := runCode(t, "PRNT(A)", Options{})
	assert.Equal(t, "Error 1: Register A not present in registers\n", out)
	require.Len(t, s.Faults, 1)
	assert.Equal(t, 1, s.Faults[0].Index)
	assert.Equal(t, 0, s.Faults[0].Depth)
	assert.Equal(t, "", s.Faults[0].Block)
}

func TestFaultsDoNotStopExecution(t *testing.T) {
	code := `
INCR(A)
ASGN(B,A)
LOOP(A){
}
ZERO(A)
PRNT(A)
`
	s, out := runCode(t, code, Options{})
	expected := "Error 1: Register A not present in registers\n" +
		"Error 2: Register A not present in registers\n" +
		"Error 3: Register A not present in registers\n" +
		"0\n"
	assert.Equal(t, expected, out)
	assert.Len(t, s.Faults, 3)
	assert.False(t, s.Registers().Has("B"))
}

func TestZeroLengthLoop(t *testing.T) {
	_, out := runCode(t, "ZERO(A)\nZERO(B)\nLOOP(B){\nINCR(A)\n}\nPRNT(A)", Options{})
	assert.Equal(t, "0\n", out)
}

func TestLoopRunsValueTimes(t *testing.T) {
	for n := 0; n <= 20; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			code := "ZERO(B)\n" + strings.Repeat("INCR(B)\n", n) + "ZERO(A)\nLOOP(B){\nINCR(A)\n}"
			s, out := runCode(t, code, Options{})
			assert.Empty(t, out)
			assert.Equal(t, vm.Value(n), register(t, s, "A"))
		})
	}
}

func TestLoopCountFixedAtEntry(t *testing.T) {
	code := `
ZERO(A)
ZERO(B)
INCR(B)
INCR(B)
INCR(B)
LOOP(B){
  INCR(A)
  INCR(B)
}
LOOP(B){
  ZERO(B)
  INCR(A)
}
`
	s, _ := runCode(t, code, Options{})
	assert.Equal(t, vm.Value(9), register(t, s, "A"))
	assert.Equal(t, vm.Value(0), register(t, s, "B"))
}

func TestNestedLoops(t *testing.T) {
	code := `
ZERO(N)
INCR(N)
INCR(N)
INCR(N)
ZERO(A)
LOOP(N){
  LOOP(N){
    INCR(A)
  }
}
PRNT(A)
`
	s, out := runCode(t, code, Options{})
	assert.Equal(t, "9\n", out)
	assert.Equal(t, 2, s.Counters.MaxDepth)
}

func TestAssignCopiesValue(t *testing.T) {
	code := "ZERO(S)\nINCR(S)\nASGN(D,S)\nINCR(S)\nPRNT(D)\nPRNT(S)"
	_, out := runCode(t, code, Options{})
	assert.Equal(t, "1\n2\n", out)
}

func TestAssignOverwrites(t *testing.T) {
	code := "ZERO(S)\nZERO(D)\nINCR(D)\nINCR(D)\nASGN(D,S)\nPRNT(D)"
	_, out := runCode(t, code, Options{})
	assert.Equal(t, "0\n", out)
}

func TestZeroResetsRegister(t *testing.T) {
	_, out := runCode(t, "ZERO(A)\nINCR(A)\nZERO(A)\nPRNT(A)", Options{})
	assert.Equal(t, "0\n", out)
}

func TestArityFaults(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"ZERO(A,B)", "Error 1: Incorrect number of args for ['A', 'B'], expected 1\n"},
		{"ZERO()", "Error 1: Incorrect number of args for [], expected 1\n"},
		{"INCR(A,B)", "Error 1: Incorrect number of args for ['A', 'B'], expected 1\n"},
		{"PRNT()", "Error 1: Incorrect number of args for [], expected 1\n"},
		{"ASGN(A)", "Error 1: Incorrect number of args for ['A'], expected 2\n"},
		{"ASGN(A,B,C)", "Error 1: Incorrect number of args for ['A', 'B', 'C'], expected 2\n"},
		{"LOOP(A,B){\nZERO(C)\n}", "Error 1: Incorrect number of args for ['A', 'B'], expected 1\n"},
		{"DEF(){\nZERO(C)\n}", "Error 1: Incorrect number of args for [], expected at least 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			s, out := runCode(t, tt.code, Options{})
			assert.Equal(t, tt.expected, out)
			assert.Empty(t, s.Registers().Registers)
		})
	}
}

func TestArityCheckedBeforeRegisters(t *testing.T) {
	_, out := runCode(t, "INCR(A,B)", Options{})
	assert.Equal(t, "Error 1: Incorrect number of args for ['A', 'B'], expected 1\n", out)
}

func TestArityMessageQuotesArgs(t *testing.T) {
	_, out := runCode(t, "ZERO(A)\nINCR(A,B)", Options{})
	assert.Equal(t, "Error 2: Incorrect number of args for ['A', 'B'], expected 1\n", out)
	assert.Equal(t, "['A']", formatArgs([]string{"A"}))
	assert.Equal(t, "[]", formatArgs(nil))
}

func TestFaultLogKeepsMessage(t *testing.T) {
	var buf bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	defer func() { log.Logger = saved }()

	runCode(t, "PRNT(A)", Options{})

	var event map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		if e["message"] == "Fault" {
			event = e
		}
	}
	require.NotNil(t, event, "no fault event in %q", buf.String())
	assert.Equal(t, "Register A not present in registers", event["fault"])
	assert.Equal(t, float64(1), event["index"])
}

func TestUnknownInstruction(t *testing.T) {
	_, out := runCode(t, "ZERO(A)\nFOO(A)\nPRNT(A)", Options{})
	assert.Equal(t, "Error 2: No function found FOO\n0\n", out)
}

func TestFaultIndexIsLocalToBlock(t *testing.T) {
	code := `
ZERO(A)
INCR(A)
LOOP(A){
  ZERO(B)
  PRNT(C)
}
PRNT(A)
`
	s, out := runCode(t, code, Options{})
	assert.Equal(t, "Error 2: Register C not present in registers\n1\n", out)
	require.Len(t, s.Faults, 1)
	f := s.Faults[0]
	assert.Equal(t, 2, f.Index)
	assert.Equal(t, 1, f.Depth)
	assert.Equal(t, "LOOP", f.Block)
	assert.Equal(t, 6, f.Line)
}

func TestFaultRepeatsPerIteration(t *testing.T) {
	code := "ZERO(N)\nINCR(N)\nINCR(N)\nLOOP(N){\nINCR(X)\nINCR(N)\n}\nPRNT(N)"
	s, out := runCode(t, code, Options{})
	expected := "Error 1: Register X not present in registers\n" +
		"Error 1: Register X not present in registers\n" +
		"4\n"
	assert.Equal(t, expected, out)
	assert.Len(t, s.Faults, 2)
}

func TestExecuteReturnsFault(t *testing.T) {
	var out bytes.Buffer
	s := NewState(&out, Options{})
	prog := vm.CompileLiteral("ZERO(A)\nINCR(B)")
	assert.Nil(t, s.Execute(0, prog.Main[0]))
	f := s.Execute(1, prog.Main[1])
	require.NotNil(t, f)
	assert.Equal(t, 2, f.Index)
	assert.Equal(t, "Register B not present in registers", f.Err.Message)
	assert.Equal(t, "Error 2: Register B not present in registers\n", out.String())
}

func TestCountersTrackInstructions(t *testing.T) {
	s, _ := runCode(t, "ZERO(A)\nINCR(A)\nINCR(A)\nLOOP(A){\nINCR(B)\n}", Options{})
	// 4 top-level nodes plus two iterations of INCR(B)
	assert.Equal(t, 6, s.Counters.Instructions)
	assert.Len(t, s.Faults, 2)
}

func TestNilOutputDiscards(t *testing.T) {
	s := NewState(nil, Options{})
	s.Run(vm.CompileLiteral("ZERO(A)\nPRNT(A)\nPRNT(B)").Main)
	assert.Len(t, s.Faults, 1)
}
