// Package replayer implements the replay half of the record-and-replay
// builder mechanism. It sweeps a module for recorded placeholder call sites,
// dispatches each to the matching backend builder operation, and reconciles
// the produced operations back into the graph.
package replayer

import (
	"fmt"

	"github.com/sarchlab/prism/builder"
	"github.com/sarchlab/prism/ir"
)

// maxIndexChainDepth bounds the walk through indexing chains above a
// waterfall dependency operand. Recorded streams only produce shallow chains;
// anything deeper is corrupt input.
const maxIndexChainDepth = 64

// Replayer replays recorded builder calls onto a concrete backend. It owns
// the backend exclusively for the duration of a pass.
type Replayer struct {
	backend  builder.Builder
	resolved map[*ir.Inst]bool
}

// NewReplayer creates a replayer that replays onto backend.
func NewReplayer(backend builder.Builder) *Replayer {
	return &Replayer{backend: backend}
}

// Run resolves every placeholder call site in the module and erases the
// placeholder declarations. It returns true iff at least one placeholder
// declaration was processed. Visitation order is whatever the module's
// bookkeeping yields; correctness does not depend on it.
func (r *Replayer) Run(m *ir.Module) bool {
	Trace("replaying recorded builder calls", "module", m.Name())

	r.resolved = make(map[*ir.Inst]bool)
	changed := false

	var funcsToRemove []*ir.Function
	for _, f := range m.Functions() {
		if !f.IsDeclaration() {
			continue
		}

		tag, ok := f.Metadata(builder.OpcodeMetadataKey)
		if !ok {
			// A prefix-named declaration without the tag means the recorded
			// stream is corrupt.
			if builder.IsPlaceholder(f) {
				panic(fmt.Sprintf(
					"replayer: placeholder @%s has no opcode metadata", f.Name()))
			}
			continue
		}
		opcode := builder.Opcode(tag)

		changed = true

		for f.NumCallSites() > 0 {
			r.resolveCall(opcode, f.CallSites()[0])
		}
		funcsToRemove = append(funcsToRemove, f)
	}

	for _, f := range funcsToRemove {
		m.EraseFunction(f)
	}

	return changed
}

// resolveCall replays one recorded call: it points the backend at the call's
// position, dispatches by opcode, moves the call's name onto the produced
// value, redirects all references, and erases the call. The resolved set
// makes the routine idempotent so the outer sweep and the forced-dependency
// path never double-resolve a call site.
func (r *Replayer) resolveCall(opcode builder.Opcode, call *ir.Inst) {
	if r.resolved[call] {
		return
	}
	r.resolved[call] = true

	r.backend.SetInsertPoint(call)
	Trace("replaying call", "opcode", opcode.String(), "call", call.String())

	newValue := r.processCall(opcode, call)
	if newValue != nil {
		if newInst, ok := newValue.(*ir.Inst); ok {
			newInst.TakeName(call)
		}
		call.ReplaceAllUsesWith(newValue)
	}
	call.EraseFromParent()
}

// checkCallAndReplay force-resolves v if it is a still-unresolved recorded
// call. The waterfall construction inspects already-built operand chains and
// knows nothing about recording, so its descriptor inputs must be replayed
// first regardless of the outer sweep order.
func (r *Replayer) checkCallAndReplay(v ir.Value) {
	call, ok := v.(*ir.Inst)
	if !ok || call.Op() != ir.OpCall {
		return
	}
	callee := call.Callee()
	if callee == nil || !builder.IsPlaceholder(callee) {
		return
	}
	tag, ok := callee.Metadata(builder.OpcodeMetadataKey)
	if !ok {
		panic(fmt.Sprintf(
			"replayer: placeholder @%s has no opcode metadata", callee.Name()))
	}
	r.resolveCall(builder.Opcode(tag), call)
}

// processCall dispatches one recorded call to the backend operation matching
// its opcode. It returns the produced value, or nil when the caller must not
// redirect references (void results and the spliced store waterfall).
func (r *Replayer) processCall(opcode builder.Opcode, call *ir.Inst) ir.Value {
	switch opcode {
	case builder.OpcodeWaterfallLoop, builder.OpcodeWaterfallStoreLoop:
		return r.processWaterfall(opcode, call)

	case builder.OpcodeLoadBufferDesc:
		return r.backend.CreateLoadBufferDesc(
			constArg(call, 0), // descSet
			constArg(call, 1), // binding
			call.Operand(2),   // descIndex
			boolArg(call, 3),  // isNonUniform
			pointeeType(call))

	case builder.OpcodeLoadSamplerDesc:
		return r.backend.CreateLoadSamplerDesc(
			constArg(call, 0), constArg(call, 1),
			call.Operand(2), boolArg(call, 3))

	case builder.OpcodeLoadResourceDesc:
		return r.backend.CreateLoadResourceDesc(
			constArg(call, 0), constArg(call, 1),
			call.Operand(2), boolArg(call, 3))

	case builder.OpcodeLoadTexelBufferDesc:
		return r.backend.CreateLoadTexelBufferDesc(
			constArg(call, 0), constArg(call, 1),
			call.Operand(2), boolArg(call, 3))

	case builder.OpcodeLoadFmaskDesc:
		return r.backend.CreateLoadFmaskDesc(
			constArg(call, 0), constArg(call, 1),
			call.Operand(2), boolArg(call, 3))

	case builder.OpcodeLoadSpillTablePtr:
		pointee := pointeeType(call)
		if pointee == nil {
			panic(fmt.Sprintf(
				"replayer: %s must have a pointer result type", call))
		}
		return r.backend.CreateLoadSpillTablePtr(pointee)

	case builder.OpcodeKill:
		return r.backend.CreateKill()

	case builder.OpcodeReadClock:
		return r.backend.CreateReadClock(boolArg(call, 0))

	default:
		// Includes the Nop sentinel, which never appears in valid input.
		panic(fmt.Sprintf("replayer: unexpected opcode %s on %s", opcode, call))
	}
}

// processWaterfall replays the two waterfall variants.
func (r *Replayer) processWaterfall(opcode builder.Opcode, call *ir.Inst) ir.Value {
	// The trailing constant-integer arguments are the operand indices of the
	// wrapped operation that carry non-uniform inputs.
	var operandIndices []uint64
	for _, arg := range call.Operands() {
		if v, ok := ir.ConstIntValue(arg); ok {
			operandIndices = append(operandIndices, v)
		}
	}

	var nonUniformInst *ir.Inst
	if opcode == builder.OpcodeWaterfallLoop {
		inst, ok := call.Operand(0).(*ir.Inst)
		if !ok {
			panic(fmt.Sprintf(
				"replayer: wrapped operation of %s is not an instruction", call))
		}
		nonUniformInst = inst
	} else {
		// The store variant wraps a void consumer. The recorded call
		// intercepts one of the consumer's non-uniform descriptor inputs;
		// follow that single reference to find the consumer and undo the
		// interception.
		uses := call.Uses()
		if len(uses) != 1 {
			panic(fmt.Sprintf(
				"replayer: store waterfall %s must have exactly one use, found %d",
				call, len(uses)))
		}
		nonUniformInst = uses[0].User
		nonUniformInst.SetOperand(uses[0].Index, call.Operand(0))
	}

	// The waterfall construction looks back through each flagged operand to
	// find the non-uniform index. Walk any indexing steps to the base value
	// and force a still-recorded descriptor load there to replay first, so
	// every inspected input is a real operation by construction time.
	for _, index := range operandIndices {
		input := nonUniformInst.Operand(int(index))
		depth := 0
		for {
			indexInst, ok := input.(*ir.Inst)
			if !ok || indexInst.Op() != ir.OpIndex {
				break
			}
			input = indexInst.Operand(0)
			depth++
			if depth > maxIndexChainDepth {
				panic(fmt.Sprintf(
					"replayer: indexing chain above operand %d of %s exceeds depth %d",
					index, nonUniformInst, maxIndexChainDepth))
			}
		}
		r.checkCallAndReplay(input)
	}

	loop := r.backend.CreateWaterfallLoop(nonUniformInst, operandIndices)

	if opcode == builder.OpcodeWaterfallLoop {
		return loop
	}

	// The consumer already took the wrapped operation's place; transfer the
	// name and tell the caller not to redirect anything.
	loop.TakeName(call)
	return nil
}

func constArg(call *ir.Inst, index int) uint64 {
	v, ok := ir.ConstIntValue(call.Operand(index))
	if !ok {
		panic(fmt.Sprintf(
			"replayer: argument %d of %s must be a constant integer", index, call))
	}
	return v
}

func boolArg(call *ir.Inst, index int) bool {
	return constArg(call, index) != 0
}

// pointeeType derives type information from the call site's own declared
// result type, for backend operations that need it.
func pointeeType(call *ir.Inst) ir.Type {
	if ptr, ok := call.Type().(ir.PointerType); ok {
		return ptr.Elem
	}
	return nil
}
