package pass

import "github.com/sarchlab/prism/ir"

// DeadFuncRemove erases declarations that nothing calls. Scheduled after
// replay it cleans up helper declarations the rewrite made unreachable.
type DeadFuncRemove struct{}

func (DeadFuncRemove) Name() string { return "dead-func-remove" }

func (DeadFuncRemove) Run(m *ir.Module) bool {
	changed := false
	for _, f := range m.Functions() {
		if f.IsDeclaration() && f.NumCallSites() == 0 {
			m.EraseFunction(f)
			changed = true
		}
	}
	return changed
}
