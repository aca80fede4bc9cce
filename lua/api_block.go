package lua

import (
	"github.com/drake/harmonia/sched"
	glua "github.com/yuin/gopher-lua"
)

// registerBlockFuncs registers the block-binding primitive.
func (e *Engine) registerBlockFuncs() {
	// harmonia.bind_block(clock_name, fn): Run fn as a coroutine,
	// executing its yielded commands in real time against the named clock.
	e.L.SetField(e.harmoniaTable, "bind_block", e.L.NewFunction(e.bindBlock))
}

// bindBlock drives one block to completion. The device connection is
// opened before the loop starts and closed exactly once when it ends;
// on a script error the connection is released first and the error is
// then raised to the script's caller.
func (e *Engine) bindBlock(L *glua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	sink, err := e.services.OpenSink()
	if err != nil {
		L.RaiseError("open device: %v", err)
		return 0
	}
	clk, err := e.services.OpenClock(name)
	if err != nil {
		sink.Close()
		L.RaiseError("open clock %q: %v", name, err)
		return 0
	}

	co, _ := L.NewThread()
	src := &blockSource{host: L, co: co, fn: fn}

	ex := sched.New(src, sink, clk)
	ex.SetLogger(e.log)
	e.current.Store(ex)

	runErr := ex.Run()

	e.current.Store(nil)
	sink.Close()
	clk.Close()

	if runErr != nil {
		L.RaiseError("%v", runErr)
	}
	return 0
}
