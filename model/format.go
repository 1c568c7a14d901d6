package model

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/timewinder-dev/regloop/interp"
)

// FormatStatistics formats run statistics
func FormatStatistics(stats Statistics) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Run statistics ==="))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Instructions executed: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Instructions))
	b.WriteString(color.Bold.Sprint("Procedure calls: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Calls))
	b.WriteString(color.Bold.Sprint("Procedures defined: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Procedures))
	b.WriteString(color.Bold.Sprint("Maximum block depth: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.MaxDepth))
	if stats.UniqueStates > 0 {
		b.WriteString(color.Bold.Sprint("Distinct states: "))
		b.WriteString(fmt.Sprintf("%d\n", stats.UniqueStates))
	}

	b.WriteString(color.Bold.Sprint("Faults: "))
	if stats.Faults > 0 {
		b.WriteString(color.Red.Sprintf("%d\n", stats.Faults))
	} else {
		b.WriteString(color.Green.Sprintf("%d\n", stats.Faults))
	}
	return b.String()
}

// FormatFaults lists faults with the location of the sequence that raised
// them, which the one-line `Error n` report leaves out.
func FormatFaults(faults []interp.Fault) string {
	if len(faults) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(color.Red.Sprintf("\n%d fault(s):\n", len(faults)))
	for _, f := range faults {
		where := "top level"
		if f.Depth > 0 {
			where = fmt.Sprintf("%s body, depth %d", f.Block, f.Depth)
		}
		b.WriteString(fmt.Sprintf("  line %d (%s, instruction %d): ", f.Line, where, f.Index))
		b.WriteString(color.Yellow.Sprint(f.Err.Message))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTrace renders traced steps as a table.
func RenderTrace(steps []TraceStep) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Step", "Instruction", "Output", "Registers", "State", "New"})
	for _, s := range steps {
		name := s.Node.String()
		if len(s.Node.Body) > 0 {
			name = strings.SplitN(name, "\n", 2)[0] + "...}"
		}
		t.AppendRow(table.Row{
			s.Index,
			name,
			strings.TrimSuffix(s.Output, "\n"),
			s.Snapshot.FormatRegisters(),
			s.Hash.String(),
			s.New,
		})
	}
	return t.Render()
}

// RenderRegisters renders the top scope of state as a table.
func RenderRegisters(state *interp.State) string {
	t := table.NewWriter()
	t.SetTitle("Registers")
	t.AppendHeader(table.Row{"Register", "Value"})
	regs := state.Registers()
	for _, n := range regs.Names() {
		t.AppendRow(table.Row{n, regs.Registers[n]})
	}
	return t.Render()
}
