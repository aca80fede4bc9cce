// Package sched implements the real-time scheduler at the heart of
// harmonia: a fixed table of per-note countdown timers plus a single pause
// timer, and the executor loop that drives a cooperative command source
// against a monotonic clock.
package sched

// NumNotes is the number of addressable notes on the device sink.
const NumNotes = 128

// Command is one instruction yielded by a Source.
type Command interface {
	isCommand()
}

// Play requests that a note stay on for at least Duration more seconds
// from now.
type Play struct {
	Note     int
	Duration float64 // seconds
}

// Sleep requests that the source not be resumed for Duration seconds.
type Sleep struct {
	Duration float64 // seconds
}

func (Play) isCommand()  {}
func (Sleep) isCommand() {}

// Source is a resumable unit of cooperative execution. Each Resume runs
// the source until it yields its next command, finishes (done=true), or
// fails with a script error. The executor and the source take turns; only
// one of them runs at a time.
type Source interface {
	Resume() (cmd Command, done bool, err error)
}

// Sink receives note transitions in the order their timers cross zero.
// Calls are assumed non-blocking.
type Sink interface {
	NoteOn(note uint8)
	NoteOff(note uint8)
}
