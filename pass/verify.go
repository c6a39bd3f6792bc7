package pass

import "github.com/sarchlab/prism/ir"

// Verify checks module integrity and aborts the compilation on violation.
// It never changes the module.
type Verify struct{}

func (Verify) Name() string { return "verify" }

func (Verify) Run(m *ir.Module) bool {
	if err := ir.Verify(m); err != nil {
		panic(err.Error())
	}
	return false
}
