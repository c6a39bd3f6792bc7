package ir_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/prism/ir"
)

var _ = Describe("Graph editing", func() {
	var (
		m *ir.Module
		f *ir.Function
	)

	BeforeEach(func() {
		m = ir.NewModule("test")
		f = ir.NewFunction("main", ir.Void, ir.I32)
		m.AddFunction(f)
	})

	It("should track uses per operand slot", func() {
		def := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		f.AppendInst(def)

		user := ir.NewInst(ir.OpStore, ir.Void, def, def)
		f.AppendInst(user)

		Expect(def.Uses()).To(ConsistOf(
			ir.Use{User: user, Index: 0},
			ir.Use{User: user, Index: 1},
		))
	})

	It("should redirect every use at once", func() {
		oldDef := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(false))
		newDef := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		f.AppendInst(oldDef)
		f.AppendInst(newDef)

		user1 := ir.NewInst(ir.OpStore, ir.Void, oldDef, oldDef)
		user2 := ir.NewInst(ir.OpStore, ir.Void, oldDef, ir.NewConstInt(ir.I64, 7))
		f.AppendInst(user1)
		f.AppendInst(user2)

		oldDef.ReplaceAllUsesWith(newDef)

		Expect(oldDef.HasUses()).To(BeFalse())
		Expect(user1.Operand(0)).To(BeIdenticalTo(newDef))
		Expect(user1.Operand(1)).To(BeIdenticalTo(newDef))
		Expect(user2.Operand(0)).To(BeIdenticalTo(newDef))
		Expect(newDef.Uses()).To(HaveLen(3))
	})

	It("should not alter unrelated references", func() {
		a := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(false))
		b := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		c := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		f.AppendInst(a)
		f.AppendInst(b)
		f.AppendInst(c)

		user := ir.NewInst(ir.OpStore, ir.Void, a, b)
		f.AppendInst(user)

		a.ReplaceAllUsesWith(c)

		Expect(user.Operand(1)).To(BeIdenticalTo(b))
	})

	It("should refuse to erase an instruction that is still used", func() {
		def := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		f.AppendInst(def)
		f.AppendInst(ir.NewInst(ir.OpStore, ir.Void, def, def))

		Expect(func() { def.EraseFromParent() }).To(Panic())
	})

	It("should drop operand uses when an instruction is erased", func() {
		def := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		f.AppendInst(def)
		user := ir.NewInst(ir.OpStore, ir.Void, def, def)
		f.AppendInst(user)

		user.EraseFromParent()

		Expect(def.HasUses()).To(BeFalse())
		Expect(f.NumInsts()).To(Equal(1))
	})

	It("should keep body order under positional insertion", func() {
		first := ir.NewInst(ir.OpKill, ir.Void)
		f.AppendInst(first)

		before := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		f.InsertBefore(first, before)
		after := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(false))
		f.InsertAfter(first, after)

		Expect(f.Insts()).To(Equal([]*ir.Inst{before, first, after}))
	})

	It("should transfer names with TakeName", func() {
		a := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		a.SetName("clock")
		b := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))

		b.TakeName(a)

		Expect(b.Name()).To(Equal("clock"))
		Expect(a.Name()).To(BeEmpty())
	})

	Context("when calling functions", func() {
		var callee *ir.Function

		BeforeEach(func() {
			callee = ir.NewDeclaration("helper", ir.I32, ir.I32)
			m.AddFunction(callee)
		})

		It("should register call sites on the callee", func() {
			call := ir.NewCall(callee, ir.NewConstInt(ir.I32, 1))
			f.AppendInst(call)

			Expect(callee.CallSites()).To(ConsistOf(call))
		})

		It("should unregister call sites on erase", func() {
			call := ir.NewCall(callee, ir.NewConstInt(ir.I32, 1))
			f.AppendInst(call)

			call.EraseFromParent()

			Expect(callee.NumCallSites()).To(Equal(0))
		})

		It("should refuse to erase a function with remaining call sites", func() {
			call := ir.NewCall(callee, ir.NewConstInt(ir.I32, 1))
			f.AppendInst(call)

			Expect(func() { m.EraseFunction(callee) }).To(Panic())
			Expect(call.Callee()).To(BeIdenticalTo(callee))
		})

		It("should erase an uncalled function", func() {
			m.EraseFunction(callee)

			Expect(m.FunctionByName("helper")).To(BeNil())
			Expect(m.NumFunctions()).To(Equal(1))
		})
	})

	Context("when reading metadata", func() {
		It("should round-trip entries", func() {
			f.SetMetadata("some.key", 42)

			val, ok := f.Metadata("some.key")
			Expect(ok).To(BeTrue())
			Expect(val).To(Equal(uint64(42)))
		})

		It("should report absent entries", func() {
			_, ok := f.Metadata("absent")
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("Verify", func() {
	It("should accept a well-formed module", func() {
		m := ir.NewModule("ok")
		f := ir.NewFunction("main", ir.Void)
		m.AddFunction(f)
		def := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		f.AppendInst(def)
		f.AppendInst(ir.NewInst(ir.OpStore, ir.Void, def, def))

		Expect(ir.Verify(m)).To(Succeed())
	})

	It("should flag operands that refer to detached instructions", func() {
		m := ir.NewModule("bad")
		f := ir.NewFunction("main", ir.Void)
		m.AddFunction(f)
		detached := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		f.AppendInst(ir.NewInst(ir.OpStore, ir.Void, detached, detached))

		Expect(ir.Verify(m)).To(MatchError(ContainSubstring("detached")))
	})
})

var _ = Describe("Constants", func() {
	It("should decode integer constants", func() {
		v, ok := ir.ConstIntValue(ir.NewConstInt(ir.I32, 9))
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(uint64(9)))
	})

	It("should reject live values", func() {
		inst := ir.NewInst(ir.OpReadClock, ir.I64, ir.NewConstBool(true))
		_, ok := ir.ConstIntValue(inst)
		Expect(ok).To(BeFalse())
	})
})
