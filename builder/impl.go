package builder

import (
	"fmt"

	"github.com/sarchlab/prism/ir"
)

// Impl is the concrete backend builder. Each Create method materializes a
// real IR operation at the current insert point and returns it.
type Impl struct {
	insertPt *ir.Inst
}

// NewImpl creates a backend builder with no insert point. SetInsertPoint must
// be called before the first operation.
func NewImpl() *Impl {
	return &Impl{}
}

// SetInsertPoint makes subsequent operations materialize immediately before
// pos.
func (b *Impl) SetInsertPoint(pos *ir.Inst) {
	b.insertPt = pos
}

func (b *Impl) emit(inst *ir.Inst) *ir.Inst {
	if b.insertPt == nil {
		panic("builder: insert point not set")
	}
	b.insertPt.Parent().InsertBefore(b.insertPt, inst)
	return inst
}

func descriptorType(dwords int) ir.Type {
	return ir.VectorType{Elem: ir.I32, Len: dwords}
}

func (b *Impl) createLoadDesc(
	op ir.Op,
	resultType ir.Type,
	descSet, binding uint64,
	descIndex ir.Value,
	isNonUniform bool,
) ir.Value {
	return b.emit(ir.NewInst(op, resultType,
		ir.NewConstInt(ir.I32, descSet),
		ir.NewConstInt(ir.I32, binding),
		descIndex,
		ir.NewConstBool(isNonUniform)))
}

// CreateLoadBufferDesc loads a buffer descriptor.
func (b *Impl) CreateLoadBufferDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool, pointeeType ir.Type) ir.Value {
	resultType := descriptorType(4)
	if pointeeType != nil {
		resultType = ir.PointerType{Elem: pointeeType}
	}
	return b.createLoadDesc(ir.OpLoadBufferDesc, resultType,
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadSamplerDesc loads a sampler descriptor.
func (b *Impl) CreateLoadSamplerDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool) ir.Value {
	return b.createLoadDesc(ir.OpLoadSamplerDesc, descriptorType(4),
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadResourceDesc loads a resource descriptor.
func (b *Impl) CreateLoadResourceDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool) ir.Value {
	return b.createLoadDesc(ir.OpLoadResourceDesc, descriptorType(8),
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadTexelBufferDesc loads a texel buffer descriptor.
func (b *Impl) CreateLoadTexelBufferDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool) ir.Value {
	return b.createLoadDesc(ir.OpLoadTexelBufferDesc, descriptorType(4),
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadFmaskDesc loads an F-mask descriptor.
func (b *Impl) CreateLoadFmaskDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool) ir.Value {
	return b.createLoadDesc(ir.OpLoadFmaskDesc, descriptorType(8),
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadSpillTablePtr loads a pointer to the spill table.
func (b *Impl) CreateLoadSpillTablePtr(spillTableType ir.Type) ir.Value {
	return b.emit(ir.NewInst(ir.OpLoadSpillTablePtr,
		ir.PointerType{Elem: spillTableType}))
}

// CreateWaterfallLoop wraps nonUniformInst in a re-execution loop keyed on
// the given operand indices. The operands reached through those indices must
// already be concrete operations; the loop construction inspects them to find
// the non-uniform index.
func (b *Impl) CreateWaterfallLoop(nonUniformInst *ir.Inst,
	operandIndices []uint64) *ir.Inst {
	if len(operandIndices) == 0 {
		panic("builder: waterfall loop needs at least one operand index")
	}
	for _, index := range operandIndices {
		operand := nonUniformInst.Operand(int(index))
		for {
			inst, ok := operand.(*ir.Inst)
			if !ok {
				break
			}
			if inst.Op() == ir.OpIndex {
				operand = inst.Operand(0)
				continue
			}
			if inst.Op() == ir.OpCall && IsPlaceholder(inst.Callee()) {
				panic(fmt.Sprintf(
					"builder: waterfall operand %d of %s is an unresolved placeholder",
					index, nonUniformInst))
			}
			break
		}
	}

	operands := []ir.Value{nonUniformInst}
	for _, index := range operandIndices {
		operands = append(operands, ir.NewConstInt(ir.I32, index))
	}
	loop := ir.NewInst(ir.OpWaterfallLoop, nonUniformInst.Type(), operands...)

	// The loop wraps the operation, so it is placed relative to the
	// operation rather than the insert point.
	nonUniformInst.Parent().InsertAfter(nonUniformInst, loop)
	return loop
}

// CreateKill terminates the invocation.
func (b *Impl) CreateKill() ir.Value {
	return b.emit(ir.NewInst(ir.OpKill, ir.Void))
}

// CreateReadClock reads the shader clock.
func (b *Impl) CreateReadClock(realtime bool) ir.Value {
	return b.emit(ir.NewInst(ir.OpReadClock, ir.I64,
		ir.NewConstBool(realtime)))
}
