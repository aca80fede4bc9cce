// Package lua hosts the scripting layer: a gopher-lua VM with the harmonia
// API, where a block function runs as a coroutine and every yield becomes
// one scheduler command.
package lua

import (
	"embed"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/drake/harmonia/sched"
	glua "github.com/yuin/gopher-lua"
)

//go:embed core/*.lua
var coreScripts embed.FS

// Engine wraps gopher-lua and manages the VM lifecycle. It is a pure
// mechanism: it knows how to run scripts and bind blocks, not where MIDI
// ports or clock regions come from — that is the Services' job.
type Engine struct {
	L        *glua.LState
	services Services
	log      *slog.Logger

	// Cached table reference
	harmoniaTable *glua.LTable

	// Executor of the block currently bound, for the debug monitor.
	current atomic.Pointer[sched.Executor]
}

// NewEngine creates an Engine with the given Services.
func NewEngine(services Services) *Engine {
	return &Engine{
		services: services,
		log:      slog.Default(),
	}
}

// SetLogger replaces the default logger.
func (e *Engine) SetLogger(log *slog.Logger) {
	e.log = log
}

// Init initializes (or re-initializes) the Lua VM with fresh state,
// registers the API and loads the embedded core scripts.
func (e *Engine) Init() error {
	if e.L != nil {
		e.L.Close()
	}
	e.L = glua.NewState()

	e.registerAPIs()
	return e.loadCore()
}

// Close cleans up the Lua state.
func (e *Engine) Close() {
	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
}

// DoString executes a raw string of Lua code. The name parameter is used
// for stack traces.
func (e *Engine) DoString(name, code string) error {
	fn, err := e.L.Load(strings.NewReader(code), name)
	if err != nil {
		return err
	}
	e.L.Push(fn)
	return e.L.PCall(0, 0, nil)
}

// DoFile executes a Lua script from the filesystem.
func (e *Engine) DoFile(path string) error {
	return e.L.DoFile(path)
}

// Stats returns the counters of the currently bound block's executor, or
// zeroes when no block is running.
func (e *Engine) Stats() sched.Stats {
	if ex := e.current.Load(); ex != nil {
		return ex.Stats()
	}
	return sched.Stats{}
}

// loadCore runs the embedded core scripts in name order (00_, 10_, ...).
func (e *Engine) loadCore() error {
	entries, err := fs.ReadDir(coreScripts, "core")
	if err != nil {
		return err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := coreScripts.ReadFile("core/" + file)
		if err != nil {
			return err
		}
		if err := e.DoString(file, string(content)); err != nil {
			return err
		}
	}
	return nil
}

// registerAPIs builds the global harmonia table.
func (e *Engine) registerAPIs() {
	e.harmoniaTable = e.L.NewTable()
	e.L.SetGlobal("harmonia", e.harmoniaTable)

	e.registerCoreFuncs()
	e.registerBlockFuncs()
}
