// Records a small shader fragment through the builder recorder, then replays
// it onto the concrete backend and dumps the module before and after.
package main

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/prism/builder"
	"github.com/sarchlab/prism/ir"
	"github.com/sarchlab/prism/pass"
)

type config struct {
	DumpIR bool `env:"PRISM_DUMP_IR" envDefault:"true"`
	Trace  bool `env:"PRISM_TRACE" envDefault:"false"`
}

func buildModule() *ir.Module {
	m := ir.NewModule("descriptor.sample")

	entry := ir.NewFunction("main", ir.Void, ir.I32)
	entry.Param(0).SetName("idx")
	m.AddFunction(entry)

	recorder := builder.NewRecorder(m)
	recorder.SetInsertFunc(entry)

	desc := recorder.CreateLoadBufferDesc(0, 3, entry.Param(0), true,
		ir.VectorType{Elem: ir.I32, Len: 4})
	desc.SetName("buf.desc")

	data := ir.NewInst(ir.OpLoad, ir.I32, desc)
	data.SetName("data")
	entry.AppendInst(data)

	store := ir.NewInst(ir.OpStore, ir.Void, data, desc)
	entry.AppendInst(store)
	recorder.CreateWaterfallLoop(store, []uint64{1}).SetName("wf.store")

	clock := recorder.CreateReadClock(true)
	clock.SetName("clock")

	recorder.CreateKill()

	return m
}

func main() {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}
	if !cfg.Trace {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	m := buildModule()
	if cfg.DumpIR {
		fmt.Println(ir.DumpTables(m))
	}

	mgr := pass.ManagerBuilder{}.WithVerifyEach().Build()
	mgr.Add(pass.NewReplayBuilderCalls(builder.NewImpl()))
	mgr.Add(pass.DeadFuncRemove{})
	mgr.Add(pass.Verify{})
	mgr.Run(m)

	if cfg.DumpIR {
		fmt.Println(ir.DumpTables(m))
	}
	atexit.Exit(0)
}
