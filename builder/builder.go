package builder

import "github.com/sarchlab/prism/ir"

// Builder is the backend invocation contract: one operation per opcode. The
// replay pass owns the builder exclusively for the duration of a pass and
// sets the insert point exactly once immediately before each replayed call.
//
// Operations that produce a value return it; void operations may return the
// created instruction, which the caller ignores for redirection purposes.
type Builder interface {
	// SetInsertPoint makes subsequent operations materialize immediately
	// before pos.
	SetInsertPoint(pos *ir.Inst)

	// CreateLoadBufferDesc loads a buffer descriptor. When pointeeType is
	// non-nil the result is a pointer to it.
	CreateLoadBufferDesc(descSet, binding uint64, descIndex ir.Value,
		isNonUniform bool, pointeeType ir.Type) ir.Value

	// CreateLoadSamplerDesc loads a sampler descriptor.
	CreateLoadSamplerDesc(descSet, binding uint64, descIndex ir.Value,
		isNonUniform bool) ir.Value

	// CreateLoadResourceDesc loads a resource descriptor.
	CreateLoadResourceDesc(descSet, binding uint64, descIndex ir.Value,
		isNonUniform bool) ir.Value

	// CreateLoadTexelBufferDesc loads a texel buffer descriptor.
	CreateLoadTexelBufferDesc(descSet, binding uint64, descIndex ir.Value,
		isNonUniform bool) ir.Value

	// CreateLoadFmaskDesc loads an F-mask descriptor.
	CreateLoadFmaskDesc(descSet, binding uint64, descIndex ir.Value,
		isNonUniform bool) ir.Value

	// CreateLoadSpillTablePtr loads a pointer to the spill table.
	CreateLoadSpillTablePtr(spillTableType ir.Type) ir.Value

	// CreateWaterfallLoop wraps nonUniformInst in a re-execution loop keyed
	// on the given operand indices. Every operand the builder inspects
	// through those indices must already be a concrete operation.
	CreateWaterfallLoop(nonUniformInst *ir.Inst, operandIndices []uint64) *ir.Inst

	// CreateKill terminates the invocation.
	CreateKill() ir.Value

	// CreateReadClock reads the shader clock, optionally the real-time one.
	CreateReadClock(realtime bool) ir.Value
}
