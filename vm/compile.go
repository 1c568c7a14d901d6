package vm

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	instructionLine = regexp.MustCompile(`^\s*([A-Z0-9]+)\(([A-Z0-9,]*)\)(\{?)\s*$`)
	blockEndLine    = regexp.MustCompile(`^\s*\}\s*$`)
)

type compileContext struct {
	open []*Node
}

func newCompileContext() *compileContext {
	return &compileContext{
		open: []*Node{{Name: "MAIN"}},
	}
}

func (cc *compileContext) top() *Node {
	return cc.open[len(cc.open)-1]
}

func (cc *compileContext) line(lineno int, l string) {
	if m := instructionLine.FindStringSubmatch(l); m != nil {
		var args []string
		if m[2] != "" {
			args = strings.Split(m[2], ",")
		}
		n := &Node{
			Op:   LookupOpcode(m[1]),
			Name: m[1],
			Args: args,
			Line: lineno,
		}
		if m[3] == "{" {
			cc.open = append(cc.open, n)
			log.Trace().Int("line", lineno).Str("name", n.Name).Int("depth", len(cc.open)-1).Msg("Parse: open block")
		} else {
			cc.top().append(n)
			log.Trace().Int("line", lineno).Str("name", n.Name).Strs("args", args).Msg("Parse: instruction")
		}
		return
	}
	if blockEndLine.MatchString(l) {
		if len(cc.open) == 1 {
			log.Trace().Int("line", lineno).Msg("Parse: closer with no open block")
			return
		}
		n := cc.open[len(cc.open)-1]
		cc.open = cc.open[:len(cc.open)-1]
		cc.top().append(n)
		log.Trace().Int("line", lineno).Str("name", n.Name).Int("children", len(n.Body)).Msg("Parse: close block")
		return
	}
	log.Trace().Int("line", lineno).Str("text", l).Msg("Parse: skipping line")
}

func (cc *compileContext) intoProgram() *Program {
	if len(cc.open) > 1 {
		log.Debug().Int("unclosed", len(cc.open)-1).Msg("Parse: dropping unclosed blocks")
	}
	return &Program{Main: cc.open[0].Body}
}

// Parse builds the instruction tree from source lines. It never fails: lines
// matching neither the instruction nor the block-end pattern are ignored, and
// blocks left open at the end of input are dropped.
func Parse(lines []string) *Program {
	cc := newCompileContext()
	for i, l := range lines {
		cc.line(i+1, l)
	}
	return cc.intoProgram()
}

func LoadFile(name string, r io.Reader) (*Program, error) {
	cc := newCompileContext()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		cc.line(lineno, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	log.Debug().Str("file", name).Int("lines", lineno).Msg("Parsed program")
	return cc.intoProgram(), nil
}

func CompilePath(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFile(path, f)
}

func CompileLiteral(code string) *Program {
	return Parse(strings.Split(code, "\n"))
}
