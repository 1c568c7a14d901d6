package vm

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Node is one instruction of the tree. Body is only populated for nodes that
// were opened as blocks in the source.
type Node struct {
	Op   Opcode
	Name string
	Args []string
	Body []*Node
	Line int
}

func (n *Node) append(child *Node) {
	n.Body = append(n.Body, child)
}

// String renders the node back into source form. Nodes without children are
// rendered without braces.
func (n *Node) String() string {
	head := fmt.Sprintf("%s(%s)", n.Name, strings.Join(n.Args, ","))
	if len(n.Body) == 0 {
		return head
	}
	return fmt.Sprintf("%s{\n%s\n}", head, joinNodes(n.Body))
}

// Equal compares two trees structurally. Source lines are ignored.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Op != o.Op || n.Name != o.Name || !slices.Equal(n.Args, o.Args) {
		return false
	}
	return slices.EqualFunc(n.Body, o.Body, (*Node).Equal)
}

type Program struct {
	Main []*Node
}

func (p *Program) String() string {
	return joinNodes(p.Main)
}

func (p *Program) Equal(o *Program) bool {
	return slices.EqualFunc(p.Main, o.Main, (*Node).Equal)
}

// DebugPrint writes the tree with resolved opcodes and source lines to w.
func (p *Program) DebugPrint(w io.Writer) {
	for i, n := range p.Main {
		debugPrint(w, n, i, 0)
	}
}

func debugPrint(w io.Writer, n *Node, i, depth int) {
	note := ""
	if len(n.Body) > 0 && !n.Op.IsBlock() {
		note = " [body never runs]"
	}
	fmt.Fprintf(w, "%s%03d: %s %s %v (line %d)%s\n", strings.Repeat("  ", depth), i, n.Op, n.Name, n.Args, n.Line, note)
	for j, c := range n.Body {
		debugPrint(w, c, j, depth+1)
	}
}

func joinNodes(nodes []*Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, "\n")
}
