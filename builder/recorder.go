package builder

import "github.com/sarchlab/prism/ir"

// Recorder records builder calls instead of materializing them. Each Create
// method emits a call to a uniquely named, body-less placeholder function
// tagged with the opcode as metadata. A later replay pass decodes the call
// sites and replays them onto a concrete backend.
type Recorder struct {
	module   *ir.Module
	fn       *ir.Function
	insertPt *ir.Inst
}

// NewRecorder creates a recorder that declares placeholders in module.
func NewRecorder(module *ir.Module) *Recorder {
	return &Recorder{module: module}
}

// SetInsertFunc makes subsequent recorded calls append to the end of f.
func (r *Recorder) SetInsertFunc(f *ir.Function) {
	r.fn = f
	r.insertPt = nil
}

// SetInsertPoint makes subsequent recorded calls materialize immediately
// before pos.
func (r *Recorder) SetInsertPoint(pos *ir.Inst) {
	r.fn = pos.Parent()
	r.insertPt = pos
}

func (r *Recorder) emit(inst *ir.Inst) *ir.Inst {
	if r.insertPt != nil {
		r.fn.InsertBefore(r.insertPt, inst)
		return inst
	}
	if r.fn == nil {
		panic("builder: recorder has no insert function")
	}
	r.fn.AppendInst(inst)
	return inst
}

// record declares (or reuses) the placeholder for opcode at the given result
// type and emits one call site with the given arguments.
func (r *Recorder) record(opcode Opcode, retType ir.Type, args ...ir.Value) *ir.Inst {
	name := PlaceholderName(opcode, retType)
	placeholder := r.module.FunctionByName(name)
	if placeholder == nil {
		paramTypes := make([]ir.Type, len(args))
		for n, arg := range args {
			paramTypes[n] = arg.Type()
		}
		placeholder = ir.NewDeclaration(name, retType, paramTypes...)
		placeholder.SetMetadata(OpcodeMetadataKey, uint64(opcode))
		r.module.AddFunction(placeholder)
	}
	return r.emit(ir.NewCall(placeholder, args...))
}

func (r *Recorder) recordLoadDesc(opcode Opcode, resultType ir.Type,
	descSet, binding uint64, descIndex ir.Value, isNonUniform bool) ir.Value {
	return r.record(opcode, resultType,
		ir.NewConstInt(ir.I32, descSet),
		ir.NewConstInt(ir.I32, binding),
		descIndex,
		ir.NewConstBool(isNonUniform))
}

// CreateLoadBufferDesc records a buffer descriptor load.
func (r *Recorder) CreateLoadBufferDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool, pointeeType ir.Type) ir.Value {
	resultType := descriptorType(4)
	if pointeeType != nil {
		resultType = ir.PointerType{Elem: pointeeType}
	}
	return r.recordLoadDesc(OpcodeLoadBufferDesc, resultType,
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadSamplerDesc records a sampler descriptor load.
func (r *Recorder) CreateLoadSamplerDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool) ir.Value {
	return r.recordLoadDesc(OpcodeLoadSamplerDesc, descriptorType(4),
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadResourceDesc records a resource descriptor load.
func (r *Recorder) CreateLoadResourceDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool) ir.Value {
	return r.recordLoadDesc(OpcodeLoadResourceDesc, descriptorType(8),
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadTexelBufferDesc records a texel buffer descriptor load.
func (r *Recorder) CreateLoadTexelBufferDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool) ir.Value {
	return r.recordLoadDesc(OpcodeLoadTexelBufferDesc, descriptorType(4),
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadFmaskDesc records an F-mask descriptor load.
func (r *Recorder) CreateLoadFmaskDesc(descSet, binding uint64, descIndex ir.Value,
	isNonUniform bool) ir.Value {
	return r.recordLoadDesc(OpcodeLoadFmaskDesc, descriptorType(8),
		descSet, binding, descIndex, isNonUniform)
}

// CreateLoadSpillTablePtr records a spill table pointer load.
func (r *Recorder) CreateLoadSpillTablePtr(spillTableType ir.Type) ir.Value {
	return r.record(OpcodeLoadSpillTablePtr, ir.PointerType{Elem: spillTableType})
}

// CreateWaterfallLoop records a waterfall loop around nonUniformInst.
//
// For an operation with a result, the recorded call takes the operation as
// its first argument and takes over the operation's other uses.
//
// For a void operation (a store-like consumer) the recorded call instead
// intercepts the consumer's operand at the first index: the call's first
// argument becomes the original operand value and the consumer's operand slot
// is redirected at the call. The replay pass follows that single reference to
// find the consumer and undoes the interception.
func (r *Recorder) CreateWaterfallLoop(nonUniformInst *ir.Inst,
	operandIndices []uint64) *ir.Inst {
	if len(operandIndices) == 0 {
		panic("builder: waterfall loop needs at least one operand index")
	}

	if _, isVoid := nonUniformInst.Type().(ir.VoidType); isVoid {
		index := int(operandIndices[0])
		intercepted := nonUniformInst.Operand(index)

		args := []ir.Value{intercepted}
		for _, operandIndex := range operandIndices {
			args = append(args, ir.NewConstInt(ir.I32, operandIndex))
		}

		fn, pos := r.fn, r.insertPt
		r.SetInsertPoint(nonUniformInst)
		call := r.record(OpcodeWaterfallStoreLoop, intercepted.Type(), args...)
		r.fn, r.insertPt = fn, pos

		nonUniformInst.SetOperand(index, call)
		return call
	}

	outsideUses := nonUniformInst.Uses()

	args := []ir.Value{nonUniformInst}
	for _, operandIndex := range operandIndices {
		args = append(args, ir.NewConstInt(ir.I32, operandIndex))
	}
	call := r.record(OpcodeWaterfallLoop, nonUniformInst.Type(), args...)

	for _, u := range outsideUses {
		u.User.SetOperand(u.Index, call)
	}
	return call
}

// CreateKill records an invocation kill.
func (r *Recorder) CreateKill() ir.Value {
	return r.record(OpcodeKill, ir.Void)
}

// CreateReadClock records a shader clock read.
func (r *Recorder) CreateReadClock(realtime bool) ir.Value {
	return r.record(OpcodeReadClock, ir.I64, ir.NewConstBool(realtime))
}

var _ Builder = (*Recorder)(nil)
var _ Builder = (*Impl)(nil)
