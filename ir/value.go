// Package ir implements the mutable operation/value/function graph that the
// shader middle-end rewrites in place.
//
// The graph keeps explicit use lists: every instruction records which other
// instructions reference its result and at which operand slot. Structural
// edits therefore go through a small set of primitives (SetOperand,
// ReplaceAllUsesWith, EraseFromParent, EraseFunction) so that every holder of
// a reference observes an edit at once.
package ir

import "fmt"

// Value is anything an instruction can take as an operand.
type Value interface {
	Name() string
	SetName(name string)
	Type() Type
}

// Use identifies one operand slot that references a value.
type Use struct {
	User  *Inst
	Index int
}

// Constant is a compile-time integer constant. Constants are unnamed and are
// never tracked in use lists; they can be shared freely.
type Constant struct {
	typ Type
	val uint64
}

// NewConstInt creates an integer constant of the given type.
func NewConstInt(typ IntType, val uint64) *Constant {
	return &Constant{typ: typ, val: val}
}

// NewConstBool creates an i1 constant.
func NewConstBool(val bool) *Constant {
	v := uint64(0)
	if val {
		v = 1
	}
	return &Constant{typ: I1, val: v}
}

func (c *Constant) Name() string { return "" }
func (c *Constant) SetName(string) {}
func (c *Constant) Type() Type { return c.typ }
func (c *Constant) Value() uint64 { return c.val }
func (c *Constant) String() string { return fmt.Sprintf("%s %d", c.typ, c.val) }

// ConstIntValue reports the integer value of v if v is an integer constant.
func ConstIntValue(v Value) (uint64, bool) {
	c, ok := v.(*Constant)
	if !ok {
		return 0, false
	}
	if _, isInt := c.typ.(IntType); !isInt {
		return 0, false
	}
	return c.val, true
}

// Argument is a formal parameter of a function.
type Argument struct {
	name   string
	typ    Type
	parent *Function
}

func (a *Argument) Name() string { return a.name }
func (a *Argument) SetName(name string) { a.name = name }
func (a *Argument) Type() Type { return a.typ }
func (a *Argument) Parent() *Function { return a.parent }
