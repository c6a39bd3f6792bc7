package ir

import (
	"fmt"
	"strings"
)

// Verify checks the structural integrity of a module: use lists must mirror
// operand slots, call-site registration must mirror call instructions, and
// attached instructions must agree with their parent. It returns an error
// describing every violation found, or nil for a well-formed module.
func Verify(m *Module) error {
	var issues []string

	report := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	for _, f := range m.Functions() {
		if f.Module() != m {
			report("function @%s has wrong module back-reference", f.Name())
		}
		if f.IsDeclaration() && f.NumInsts() > 0 {
			report("declaration @%s has a body", f.Name())
		}
		for _, call := range f.CallSites() {
			if call.Op() != OpCall || call.Callee() != f {
				report("call-site list of @%s contains a non-call of it", f.Name())
			}
		}

		for _, inst := range f.Insts() {
			if inst.Parent() != f {
				report("instruction %s has wrong parent", inst)
			}
			for index, v := range inst.Operands() {
				if v == nil {
					report("instruction %s has nil operand %d", inst, index)
					continue
				}
				def, ok := v.(*Inst)
				if !ok {
					continue
				}
				if !hasUse(def, Use{User: inst, Index: index}) {
					report("operand %d of %s is missing from the use list of its definition",
						index, inst)
				}
				if def.Parent() == nil {
					report("operand %d of %s refers to a detached instruction", index, inst)
				}
			}
			for _, u := range inst.Uses() {
				if u.Index >= u.User.NumOperands() || u.User.Operand(u.Index) != Value(inst) {
					report("use list of %s has a stale entry", inst)
				}
			}
			if inst.Op() == OpCall {
				callee := inst.Callee()
				if callee == nil {
					report("call %s has no callee", inst)
				} else if !hasCallSite(callee, inst) {
					report("call %s is missing from the call-site list of @%s",
						inst, callee.Name())
				}
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("ir verify: %d issue(s):\n  %s",
		len(issues), strings.Join(issues, "\n  "))
}

func hasUse(def *Inst, u Use) bool {
	for _, existing := range def.Uses() {
		if existing == u {
			return true
		}
	}
	return false
}

func hasCallSite(f *Function, call *Inst) bool {
	for _, existing := range f.CallSites() {
		if existing == call {
			return true
		}
	}
	return false
}
