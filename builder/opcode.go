// Package builder defines the builder-call surface of the shader middle-end:
// the closed opcode enumeration, the recording convention that embeds builder
// calls in the IR as placeholder call sites, the Recorder that produces that
// encoding, and a concrete backend (Impl) that materializes real operations.
package builder

import (
	"fmt"
	"strings"

	"github.com/sarchlab/prism/ir"
)

// CallPrefix is the reserved name prefix of recorded placeholder functions.
// A declaration whose name starts with this prefix and that lacks opcode
// metadata is corrupt input.
const CallPrefix = "prism.call."

// OpcodeMetadataKey is the function-metadata key carrying the opcode tag.
const OpcodeMetadataKey = "prism.call.opcode"

// Opcode identifies which backend operation a recorded call stands for.
type Opcode uint32

const (
	// OpcodeNop is a reserved sentinel. It never appears in valid input.
	OpcodeNop Opcode = iota

	// Descriptor operations.
	OpcodeLoadBufferDesc
	OpcodeLoadSamplerDesc
	OpcodeLoadResourceDesc
	OpcodeLoadTexelBufferDesc
	OpcodeLoadFmaskDesc
	OpcodeLoadSpillTablePtr
	OpcodeWaterfallLoop
	OpcodeWaterfallStoreLoop

	// Miscellaneous operations.
	OpcodeKill
	OpcodeReadClock
)

var opcodeNames = map[Opcode]string{
	OpcodeNop:                 "nop",
	OpcodeLoadBufferDesc:      "load.buffer.desc",
	OpcodeLoadSamplerDesc:     "load.sampler.desc",
	OpcodeLoadResourceDesc:    "load.resource.desc",
	OpcodeLoadTexelBufferDesc: "load.texel.buffer.desc",
	OpcodeLoadFmaskDesc:       "load.fmask.desc",
	OpcodeLoadSpillTablePtr:   "load.spill.table.ptr",
	OpcodeWaterfallLoop:       "waterfall.loop",
	OpcodeWaterfallStoreLoop:  "waterfall.store.loop",
	OpcodeKill:                "kill",
	OpcodeReadClock:           "read.clock",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", uint32(o))
}

// PlaceholderName derives the unique placeholder-function name for an opcode
// and result type. The result type participates so that the same opcode
// recorded at different result types gets distinct declarations.
func PlaceholderName(opcode Opcode, retType ir.Type) string {
	name := CallPrefix + opcode.String()
	if _, isVoid := retType.(ir.VoidType); !isVoid {
		name += "." + mangleType(retType)
	}
	return name
}

func mangleType(t ir.Type) string {
	switch t := t.(type) {
	case ir.VoidType:
		return "v0"
	case ir.IntType:
		return fmt.Sprintf("i%d", t.Bits)
	case ir.FloatType:
		return fmt.Sprintf("f%d", t.Bits)
	case ir.PointerType:
		return "p0" + mangleType(t.Elem)
	case ir.VectorType:
		return fmt.Sprintf("v%d%s", t.Len, mangleType(t.Elem))
	default:
		panic(fmt.Sprintf("builder: unmanglable type %v", t))
	}
}

// IsPlaceholder reports whether a function follows the recording naming
// convention.
func IsPlaceholder(f *ir.Function) bool {
	return strings.HasPrefix(f.Name(), CallPrefix)
}
