package ir

import "fmt"

// Function is a function declaration or definition. A declaration has no
// body. Functions carry key/value metadata; the recording convention uses one
// metadata entry to tag a placeholder declaration with its opcode.
type Function struct {
	name      string
	params    []*Argument
	retType   Type
	body      []*Inst
	defined   bool
	metadata  map[string]uint64
	callSites []*Inst
	module    *Module
}

// NewFunction creates a defined function with an empty body.
func NewFunction(name string, ret Type, paramTypes ...Type) *Function {
	f := newFunction(name, ret, paramTypes)
	f.defined = true
	return f
}

// NewDeclaration creates a body-less function declaration.
func NewDeclaration(name string, ret Type, paramTypes ...Type) *Function {
	return newFunction(name, ret, paramTypes)
}

func newFunction(name string, ret Type, paramTypes []Type) *Function {
	f := &Function{
		name:     name,
		retType:  ret,
		metadata: make(map[string]uint64),
	}
	for n, t := range paramTypes {
		f.params = append(f.params, &Argument{
			name:   fmt.Sprintf("arg%d", n),
			typ:    t,
			parent: f,
		})
	}
	return f
}

func (f *Function) Name() string { return f.name }
func (f *Function) SetName(name string) { f.name = name }
func (f *Function) Type() Type { return f.retType }
func (f *Function) ReturnType() Type { return f.retType }
func (f *Function) Module() *Module { return f.module }

// IsDeclaration reports whether the function has no body.
func (f *Function) IsDeclaration() bool { return !f.defined }

// Params returns the formal parameters.
func (f *Function) Params() []*Argument {
	out := make([]*Argument, len(f.params))
	copy(out, f.params)
	return out
}

// Param returns the parameter at the given position.
func (f *Function) Param(index int) *Argument { return f.params[index] }

// SetMetadata attaches one metadata entry to the function.
func (f *Function) SetMetadata(key string, val uint64) {
	f.metadata[key] = val
}

// Metadata reads one metadata entry.
func (f *Function) Metadata(key string) (uint64, bool) {
	val, ok := f.metadata[key]
	return val, ok
}

// CallSites returns a copy of the calls that currently reference this
// function. The order is bookkeeping order and carries no meaning.
func (f *Function) CallSites() []*Inst {
	out := make([]*Inst, len(f.callSites))
	copy(out, f.callSites)
	return out
}

// NumCallSites reports how many calls still reference this function.
func (f *Function) NumCallSites() int { return len(f.callSites) }

func (f *Function) addCallSite(call *Inst) {
	f.callSites = append(f.callSites, call)
}

func (f *Function) removeCallSite(call *Inst) {
	for n, existing := range f.callSites {
		if existing == call {
			f.callSites = append(f.callSites[:n], f.callSites[n+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("ir: call site not registered on @%s", f.name))
}

// Insts returns a copy of the body.
func (f *Function) Insts() []*Inst {
	out := make([]*Inst, len(f.body))
	copy(out, f.body)
	return out
}

// NumInsts reports the body length.
func (f *Function) NumInsts() int { return len(f.body) }

// AppendInst attaches a detached instruction at the end of the body.
func (f *Function) AppendInst(inst *Inst) {
	f.checkInsertable(inst)
	inst.parent = f
	f.body = append(f.body, inst)
}

// InsertBefore attaches a detached instruction immediately before pos.
func (f *Function) InsertBefore(pos, inst *Inst) {
	f.insertAt(f.indexOf(pos), inst)
}

// InsertAfter attaches a detached instruction immediately after pos.
func (f *Function) InsertAfter(pos, inst *Inst) {
	f.insertAt(f.indexOf(pos)+1, inst)
}

func (f *Function) insertAt(index int, inst *Inst) {
	f.checkInsertable(inst)
	inst.parent = f
	f.body = append(f.body, nil)
	copy(f.body[index+1:], f.body[index:])
	f.body[index] = inst
}

func (f *Function) checkInsertable(inst *Inst) {
	if !f.defined {
		panic(fmt.Sprintf("ir: inserting into declaration @%s", f.name))
	}
	if inst.parent != nil {
		panic(fmt.Sprintf("ir: instruction %s already attached", inst))
	}
}

func (f *Function) indexOf(inst *Inst) int {
	for n, existing := range f.body {
		if existing == inst {
			return n
		}
	}
	panic(fmt.Sprintf("ir: instruction %s not in @%s", inst, f.name))
}

func (f *Function) removeInst(inst *Inst) {
	n := f.indexOf(inst)
	f.body = append(f.body[:n], f.body[n+1:]...)
}
