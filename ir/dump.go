package ir

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// String renders the module in a plain textual form.
func (m *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", m.name)
	for _, f := range m.funcs {
		sb.WriteString(f.String())
	}
	return sb.String()
}

// String renders one function.
func (f *Function) String() string {
	var sb strings.Builder
	kind := "define"
	if f.IsDeclaration() {
		kind = "declare"
	}
	fmt.Fprintf(&sb, "%s %s @%s(", kind, f.retType, f.name)
	for n, p := range f.params {
		if n > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %%%s", p.Type(), p.Name())
	}
	sb.WriteString(")")
	for key, val := range f.metadata {
		fmt.Fprintf(&sb, " !%s=%d", key, val)
	}
	if f.IsDeclaration() {
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(" {\n")
	for _, inst := range f.body {
		fmt.Fprintf(&sb, "  %s\n", inst)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// DumpTables renders the module as a declarations table plus one body table
// per defined function.
func DumpTables(m *Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "==============Module %s==============\n", m.name)

	declTable := table.NewWriter()
	declTable.SetTitle("Declarations")
	declTable.AppendHeader(table.Row{"Name", "Type", "Metadata", "Call Sites"})
	for _, f := range m.funcs {
		if !f.IsDeclaration() {
			continue
		}
		meta := make([]string, 0, len(f.metadata))
		for key, val := range f.metadata {
			meta = append(meta, fmt.Sprintf("%s=%d", key, val))
		}
		declTable.AppendRow(table.Row{
			f.Name(), f.ReturnType().String(),
			strings.Join(meta, " "), f.NumCallSites(),
		})
	}
	sb.WriteString(declTable.Render())
	sb.WriteString("\n")

	for _, f := range m.funcs {
		if f.IsDeclaration() {
			continue
		}
		bodyTable := table.NewWriter()
		bodyTable.SetTitle(fmt.Sprintf("Function @%s", f.Name()))
		bodyTable.AppendHeader(table.Row{"#", "Name", "Op", "Type", "Operands"})
		for n, inst := range f.body {
			operands := make([]string, 0, inst.NumOperands())
			for _, v := range inst.Operands() {
				operands = append(operands, formatOperand(v))
			}
			bodyTable.AppendRow(table.Row{
				n, inst.Name(), inst.Op().String(),
				inst.Type().String(), strings.Join(operands, ", "),
			})
		}
		sb.WriteString(bodyTable.Render())
		sb.WriteString("\n")
	}

	return sb.String()
}
