package ir

import (
	"fmt"
	"strings"
)

// Op is the operation an instruction performs. The set is closed.
type Op int

const (
	OpInvalid Op = iota
	OpCall
	OpIndex // address/aggregate indexing, a chain of these reaches a base value
	OpLoad
	OpStore
	OpLoadBufferDesc
	OpLoadSamplerDesc
	OpLoadResourceDesc
	OpLoadTexelBufferDesc
	OpLoadFmaskDesc
	OpLoadSpillTablePtr
	OpWaterfallLoop
	OpKill
	OpReadClock
)

var opNames = map[Op]string{
	OpInvalid:             "invalid",
	OpCall:                "call",
	OpIndex:               "index",
	OpLoad:                "load",
	OpStore:               "store",
	OpLoadBufferDesc:      "load.buffer.desc",
	OpLoadSamplerDesc:     "load.sampler.desc",
	OpLoadResourceDesc:    "load.resource.desc",
	OpLoadTexelBufferDesc: "load.texel.buffer.desc",
	OpLoadFmaskDesc:       "load.fmask.desc",
	OpLoadSpillTablePtr:   "load.spill.table.ptr",
	OpWaterfallLoop:       "waterfall.loop",
	OpKill:                "kill",
	OpReadClock:           "read.clock",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Inst is one instruction. Instructions that produce a value implement Value;
// void instructions have VoidType and must not be used as operands.
type Inst struct {
	op       Op
	name     string
	typ      Type
	operands []Value
	callee   *Function
	parent   *Function
	uses     []Use
}

// NewInst creates a detached instruction. Attach it with
// Function.AppendInst or Function.InsertBefore/InsertAfter.
func NewInst(op Op, typ Type, operands ...Value) *Inst {
	inst := &Inst{op: op, typ: typ, operands: make([]Value, len(operands))}
	for i, v := range operands {
		inst.setOperandNoCheck(i, v)
	}
	return inst
}

// NewCall creates a detached call to callee. The callee's call-site list is
// updated immediately so that the callee can enumerate its remaining
// references even before the call is attached to a body.
func NewCall(callee *Function, args ...Value) *Inst {
	inst := NewInst(OpCall, callee.ReturnType(), args...)
	inst.callee = callee
	callee.addCallSite(inst)
	return inst
}

func (i *Inst) Op() Op { return i.op }
func (i *Inst) Name() string { return i.name }
func (i *Inst) SetName(name string) { i.name = name }
func (i *Inst) Type() Type { return i.typ }
func (i *Inst) Parent() *Function { return i.parent }
func (i *Inst) Callee() *Function { return i.callee }
func (i *Inst) NumOperands() int { return len(i.operands) }

// TakeName transfers the name of from onto i, leaving from unnamed.
func (i *Inst) TakeName(from *Inst) {
	i.name = from.name
	from.name = ""
}

// Operand returns the operand at the given slot.
func (i *Inst) Operand(index int) Value {
	return i.operands[index]
}

// Operands returns a copy of the operand list.
func (i *Inst) Operands() []Value {
	out := make([]Value, len(i.operands))
	copy(out, i.operands)
	return out
}

// SetOperand rewrites one operand slot, keeping use lists consistent.
func (i *Inst) SetOperand(index int, v Value) {
	if old, ok := i.operands[index].(*Inst); ok {
		old.removeUse(Use{User: i, Index: index})
	}
	i.setOperandNoCheck(index, v)
}

func (i *Inst) setOperandNoCheck(index int, v Value) {
	i.operands[index] = v
	if def, ok := v.(*Inst); ok {
		def.uses = append(def.uses, Use{User: i, Index: index})
	}
}

// Uses returns a copy of the uses of this instruction's result.
func (i *Inst) Uses() []Use {
	out := make([]Use, len(i.uses))
	copy(out, i.uses)
	return out
}

// HasUses reports whether anything still references this instruction.
func (i *Inst) HasUses() bool { return len(i.uses) > 0 }

func (i *Inst) removeUse(u Use) {
	for n, existing := range i.uses {
		if existing == u {
			i.uses = append(i.uses[:n], i.uses[n+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("ir: use %v not registered on %s", u, i))
}

// ReplaceAllUsesWith redirects every reference to this instruction's result
// so that it refers to v instead. Afterwards the instruction has no uses.
func (i *Inst) ReplaceAllUsesWith(v Value) {
	for len(i.uses) > 0 {
		u := i.uses[0]
		u.User.SetOperand(u.Index, v)
	}
}

// EraseFromParent detaches the instruction from its function and drops the
// uses it holds on its operands. The instruction must itself be unused.
func (i *Inst) EraseFromParent() {
	if len(i.uses) > 0 {
		panic(fmt.Sprintf("ir: erasing %s which still has %d uses", i, len(i.uses)))
	}
	for index, v := range i.operands {
		if def, ok := v.(*Inst); ok {
			def.removeUse(Use{User: i, Index: index})
		}
		i.operands[index] = nil
	}
	if i.callee != nil {
		i.callee.removeCallSite(i)
		i.callee = nil
	}
	if i.parent != nil {
		i.parent.removeInst(i)
		i.parent = nil
	}
}

func (i *Inst) String() string {
	var sb strings.Builder
	if i.name != "" {
		fmt.Fprintf(&sb, "%%%s = ", i.name)
	}
	sb.WriteString(i.op.String())
	if i.callee != nil {
		fmt.Fprintf(&sb, " @%s", i.callee.Name())
	}
	for n, v := range i.operands {
		if n > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		sb.WriteString(formatOperand(v))
	}
	if _, isVoid := i.typ.(VoidType); !isVoid {
		fmt.Fprintf(&sb, " : %s", i.typ)
	}
	return sb.String()
}

func formatOperand(v Value) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case *Constant:
		return v.String()
	case *Inst:
		if v.Name() != "" {
			return "%" + v.Name()
		}
		return fmt.Sprintf("%%unnamed.%s", v.Op())
	case *Function:
		return "@" + v.Name()
	default:
		if v.Name() != "" {
			return "%" + v.Name()
		}
		return "%?"
	}
}
