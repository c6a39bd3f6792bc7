// Package pass provides the minimal pass-manager scaffolding the middle-end
// schedules its module rewrites with.
package pass

import (
	"log/slog"
	"time"

	"github.com/sarchlab/prism/ir"
)

// Pass is one module rewrite. Run reports whether it changed the module.
type Pass interface {
	Name() string
	Run(m *ir.Module) bool
}

// Manager runs passes in registration order.
type Manager struct {
	passes     []Pass
	verifyEach bool
}

// ManagerBuilder can create pass managers.
type ManagerBuilder struct {
	verifyEach bool
}

// WithVerifyEach makes the manager verify the module after every pass.
func (b ManagerBuilder) WithVerifyEach() ManagerBuilder {
	b.verifyEach = true
	return b
}

// Build creates the manager.
func (b ManagerBuilder) Build() *Manager {
	return &Manager{verifyEach: b.verifyEach}
}

// Add appends a pass to the schedule.
func (m *Manager) Add(p Pass) {
	m.passes = append(m.passes, p)
}

// Run executes the schedule and reports whether any pass changed the module.
func (m *Manager) Run(mod *ir.Module) bool {
	changed := false
	for _, p := range m.passes {
		start := time.Now()
		passChanged := p.Run(mod)
		changed = passChanged || changed

		slog.Info("pass finished",
			slog.String("pass", p.Name()),
			slog.Bool("changed", passChanged),
			slog.Duration("elapsed", time.Since(start)))

		if m.verifyEach {
			if err := ir.Verify(mod); err != nil {
				panic("pass: module broken after " + p.Name() + ": " + err.Error())
			}
		}
	}
	return changed
}
