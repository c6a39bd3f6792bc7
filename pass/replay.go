package pass

import (
	"github.com/sarchlab/prism/builder"
	"github.com/sarchlab/prism/ir"
	"github.com/sarchlab/prism/replayer"
)

// ReplayBuilderCalls schedules the builder-call replay as a pass. The pass
// takes exclusive ownership of the backend for each run.
type ReplayBuilderCalls struct {
	replayer *replayer.Replayer
}

// NewReplayBuilderCalls creates the replay pass over the given backend.
func NewReplayBuilderCalls(backend builder.Builder) *ReplayBuilderCalls {
	return &ReplayBuilderCalls{replayer: replayer.NewReplayer(backend)}
}

func (p *ReplayBuilderCalls) Name() string { return "replay-builder-calls" }

func (p *ReplayBuilderCalls) Run(m *ir.Module) bool {
	return p.replayer.Run(m)
}
