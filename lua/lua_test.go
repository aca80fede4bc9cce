package lua

import (
	"testing"
	"time"

	"github.com/drake/harmonia/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
)

// setupTest creates an initialized engine backed by mock services.
func setupTest(t *testing.T) (*Engine, *mockServices) {
	t.Helper()

	services := newMockServices()
	engine := NewEngine(services)
	if err := engine.Init(); err != nil {
		t.Fatal("Failed to initialize engine:", err)
	}
	t.Cleanup(engine.Close)

	return engine, services
}

func TestBindBlockPlaysAndReleases(t *testing.T) {
	engine, services := setupTest(t)

	err := engine.DoString("test", `
		harmonia.bind_block("", function()
			harmonia.play(60, 0.02)
		end)
	`)
	require.NoError(t, err)

	assert.Equal(t, []midi.MockEvent{
		{On: true, Note: 60},
		{On: false, Note: 60},
	}, services.sink.Events())
	assert.Equal(t, 1, services.sink.Closes())
}

func TestBindBlockAcceptsPitchNames(t *testing.T) {
	engine, services := setupTest(t)

	err := engine.DoString("test", `
		harmonia.bind_block("", function()
			harmonia.play("C#4", 0.01)
		end)
	`)
	require.NoError(t, err)

	events := services.sink.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, uint8(61), events[0].Note)
}

func TestBindBlockChord(t *testing.T) {
	engine, services := setupTest(t)

	err := engine.DoString("test", `
		harmonia.bind_block("", function()
			harmonia.chord({60, 64, 67}, 0.02)
		end)
	`)
	require.NoError(t, err)

	assert.Equal(t, []midi.MockEvent{
		{On: true, Note: 60},
		{On: true, Note: 64},
		{On: true, Note: 67},
		{On: false, Note: 60},
		{On: false, Note: 64},
		{On: false, Note: 67},
	}, services.sink.Events())
}

func TestBindBlockSleepDelaysTheBlock(t *testing.T) {
	engine, _ := setupTest(t)

	start := time.Now()
	err := engine.DoString("test", `
		harmonia.bind_block("", function()
			harmonia.sleep(0.05)
		end)
	`)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestBindBlockBadActionClosesSinkOnce(t *testing.T) {
	engine, services := setupTest(t)

	err := engine.DoString("test", `
		harmonia.bind_block("", function()
			coroutine.yield("dance", 1, 2)
		end)
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to recognize action")
	assert.Equal(t, 1, services.sink.Closes())
}

func TestBindBlockOutOfRangeNoteFailsTheBlock(t *testing.T) {
	engine, services := setupTest(t)

	err := engine.DoString("test", `
		harmonia.bind_block("", function()
			harmonia.play(60, 0.5)
			harmonia.play(200, 0.5)
		end)
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside 0..127")
	assert.Equal(t, 1, services.sink.Closes())
}

func TestBindBlockScriptRuntimeError(t *testing.T) {
	engine, services := setupTest(t)

	err := engine.DoString("test", `
		harmonia.bind_block("", function()
			error("broken block")
		end)
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken block")
	assert.Equal(t, 1, services.sink.Closes())
}

func TestBindBlockPassesClockName(t *testing.T) {
	engine, services := setupTest(t)

	err := engine.DoString("test", `
		harmonia.bind_block("/my-master", function() end)
	`)
	require.NoError(t, err)

	assert.Equal(t, []string{"/my-master"}, services.clockNames)
}

func TestNoteHelpers(t *testing.T) {
	engine, _ := setupTest(t)

	err := engine.DoString("test", `
		number = harmonia.note("A4")
		name = harmonia.note_name(60)
	`)
	require.NoError(t, err)

	assert.Equal(t, glua.LNumber(69), engine.L.GetGlobal("number"))
	assert.Equal(t, glua.LString("C4"), engine.L.GetGlobal("name"))
}

func TestNoteHelperRejectsGarbage(t *testing.T) {
	engine, _ := setupTest(t)

	err := engine.DoString("test", `harmonia.note("H2")`)
	require.Error(t, err)
}
