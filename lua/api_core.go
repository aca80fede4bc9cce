package lua

import (
	"github.com/drake/harmonia/midi"
	glua "github.com/yuin/gopher-lua"
)

// registerCoreFuncs registers the harmonia.* utility functions.
func (e *Engine) registerCoreFuncs() {
	// harmonia.log(text): Write to the host log
	e.L.SetField(e.harmoniaTable, "log", e.L.NewFunction(func(L *glua.LState) int {
		msg := L.CheckString(1)
		e.log.Info("script", "msg", msg)
		return 0
	}))

	// harmonia.note(name): Resolve a pitch name to a MIDI note number
	e.L.SetField(e.harmoniaTable, "note", e.L.NewFunction(func(L *glua.LState) int {
		name := L.CheckString(1)
		n, err := midi.ParseNote(name)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		L.Push(glua.LNumber(n))
		return 1
	}))

	// harmonia.note_name(n): Display name of a MIDI note number
	e.L.SetField(e.harmoniaTable, "note_name", e.L.NewFunction(func(L *glua.LState) int {
		n := L.CheckInt(1)
		L.Push(glua.LString(midi.NoteName(n)))
		return 1
	}))
}
