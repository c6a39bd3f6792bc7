package ir

import "fmt"

// Type describes the type of a value. The set of types is closed; the
// middle-end never needs user-defined aggregates.
type Type interface {
	String() string
	typ()
}

type VoidType struct{}

func (VoidType) typ() {}
func (VoidType) String() string { return "void" }

type IntType struct {
	Bits int
}

func (IntType) typ() {}
func (t IntType) String() string { return fmt.Sprintf("i%d", t.Bits) }

type FloatType struct {
	Bits int
}

func (FloatType) typ() {}
func (t FloatType) String() string { return fmt.Sprintf("f%d", t.Bits) }

// PointerType points to a value of the element type.
type PointerType struct {
	Elem Type
}

func (PointerType) typ() {}
func (t PointerType) String() string { return t.Elem.String() + "*" }

// VectorType is a fixed-length vector. Descriptors are vectors of i32.
type VectorType struct {
	Elem Type
	Len  int
}

func (VectorType) typ() {}
func (t VectorType) String() string {
	return fmt.Sprintf("<%d x %s>", t.Len, t.Elem.String())
}

// Commonly used types.
var (
	Void = VoidType{}
	I1   = IntType{Bits: 1}
	I32  = IntType{Bits: 32}
	I64  = IntType{Bits: 64}
)
