package pass_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/prism/builder"
	"github.com/sarchlab/prism/ir"
	"github.com/sarchlab/prism/pass"
)

type recordingPass struct {
	name    string
	changed bool
	log     *[]string
}

func (p recordingPass) Name() string { return p.name }

func (p recordingPass) Run(m *ir.Module) bool {
	*p.log = append(*p.log, p.name)
	return p.changed
}

var _ = Describe("Manager", func() {
	var m *ir.Module

	BeforeEach(func() {
		m = ir.NewModule("test")
		m.AddFunction(ir.NewFunction("main", ir.Void))
	})

	It("should run passes in registration order", func() {
		var log []string
		mgr := pass.ManagerBuilder{}.Build()
		mgr.Add(recordingPass{name: "first", log: &log})
		mgr.Add(recordingPass{name: "second", log: &log})

		mgr.Run(m)

		Expect(log).To(Equal([]string{"first", "second"}))
	})

	It("should aggregate the changed flag", func() {
		var log []string
		mgr := pass.ManagerBuilder{}.Build()
		mgr.Add(recordingPass{name: "noop", log: &log})

		Expect(mgr.Run(m)).To(BeFalse())

		mgr.Add(recordingPass{name: "rewrite", changed: true, log: &log})
		Expect(mgr.Run(m)).To(BeTrue())
	})
})

var _ = Describe("DeadFuncRemove", func() {
	It("should erase only uncalled declarations", func() {
		m := ir.NewModule("test")
		f := ir.NewFunction("main", ir.Void)
		m.AddFunction(f)

		dead := ir.NewDeclaration("dead.helper", ir.Void)
		m.AddFunction(dead)
		live := ir.NewDeclaration("live.helper", ir.Void)
		m.AddFunction(live)
		f.AppendInst(ir.NewCall(live))

		Expect(pass.DeadFuncRemove{}.Run(m)).To(BeTrue())

		Expect(m.FunctionByName("dead.helper")).To(BeNil())
		Expect(m.FunctionByName("live.helper")).NotTo(BeNil())
		Expect(m.FunctionByName("main")).NotTo(BeNil())
	})

	It("should report no change on a clean module", func() {
		m := ir.NewModule("test")
		m.AddFunction(ir.NewFunction("main", ir.Void))

		Expect(pass.DeadFuncRemove{}.Run(m)).To(BeFalse())
	})
})

var _ = Describe("Replay pipeline", func() {
	It("should replay and clean up in one schedule", func() {
		m := ir.NewModule("pipeline")
		entry := ir.NewFunction("main", ir.Void, ir.I32)
		m.AddFunction(entry)

		recorder := builder.NewRecorder(m)
		recorder.SetInsertFunc(entry)
		recorder.CreateReadClock(true).SetName("t0")
		recorder.CreateKill()

		mgr := pass.ManagerBuilder{}.WithVerifyEach().Build()
		mgr.Add(pass.NewReplayBuilderCalls(builder.NewImpl()))
		mgr.Add(pass.DeadFuncRemove{})
		mgr.Add(pass.Verify{})

		Expect(mgr.Run(m)).To(BeTrue())
		Expect(m.NumFunctions()).To(Equal(1))
		Expect(entry.NumInsts()).To(Equal(2))
	})
})
