package ir

import "fmt"

// Module is the top-level container of functions.
type Module struct {
	name  string
	funcs []*Function
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{name: name}
}

func (m *Module) Name() string { return m.name }

// AddFunction attaches a function to the module. Function names are unique
// within a module.
func (m *Module) AddFunction(f *Function) {
	if m.FunctionByName(f.name) != nil {
		panic(fmt.Sprintf("ir: duplicate function @%s in module %s", f.name, m.name))
	}
	f.module = m
	m.funcs = append(m.funcs, f)
}

// Functions returns a copy of the function list in declaration order.
func (m *Module) Functions() []*Function {
	out := make([]*Function, len(m.funcs))
	copy(out, m.funcs)
	return out
}

// NumFunctions reports how many functions the module holds.
func (m *Module) NumFunctions() int { return len(m.funcs) }

// FunctionByName looks a function up by name, returning nil when absent.
func (m *Module) FunctionByName(name string) *Function {
	for _, f := range m.funcs {
		if f.name == name {
			return f
		}
	}
	return nil
}

// EraseFunction detaches a function from the module. The function must have
// no remaining call sites.
func (m *Module) EraseFunction(f *Function) {
	if len(f.callSites) > 0 {
		panic(fmt.Sprintf("ir: erasing @%s which still has %d call sites",
			f.name, len(f.callSites)))
	}
	for n, existing := range m.funcs {
		if existing == f {
			m.funcs = append(m.funcs[:n], m.funcs[n+1:]...)
			f.module = nil
			return
		}
	}
	panic(fmt.Sprintf("ir: function @%s not in module %s", f.name, m.name))
}
