package sched

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/drake/harmonia/clock"
)

// SleepFunc blocks for the given number of seconds. Non-positive requests
// must return immediately.
type SleepFunc func(seconds float64)

// RealSleep blocks on the OS timer. The wake-up may undershoot or
// overshoot; the executor corrects for both.
func RealSleep(seconds float64) {
	if seconds <= 0 {
		return
	}
	time.Sleep(time.Duration(seconds * float64(time.Second)))
}

// Stats is a snapshot of executor counters for the debug monitor.
type Stats struct {
	Commands int64
	Sleeps   int64
	NotesOn  int64
	NotesOff int64
}

// ActiveNotes is the number of notes currently sounding.
func (s Stats) ActiveNotes() int64 {
	return s.NotesOn - s.NotesOff
}

// Executor runs one block to completion: one command per iteration, then
// an advance of the timer table, a compensated sleep until the nearest
// deadline, and a re-check of the pause timer in case the sleep undershot.
type Executor struct {
	table Table
	src   Source
	sink  Sink
	clock clock.Source
	sleep SleepFunc
	log   *slog.Logger

	// Two most recent clock samples. Elapsed time for an advance is
	// now-prev and is never assumed non-negative.
	prev, now float64

	commands atomic.Int64
	sleeps   atomic.Int64
	notesOn  atomic.Int64
	notesOff atomic.Int64
}

// New creates an Executor over the given source, sink and clock, sleeping
// on the OS timer.
func New(src Source, sink Sink, clk clock.Source) *Executor {
	return &Executor{
		src:   src,
		sink:  sink,
		clock: clk,
		sleep: RealSleep,
		log:   slog.Default(),
	}
}

// SetSleep replaces the sleep primitive. Tests use this to drive the loop
// against a fake clock.
func (e *Executor) SetSleep(fn SleepFunc) {
	e.sleep = fn
}

// SetLogger replaces the default logger.
func (e *Executor) SetLogger(log *slog.Logger) {
	e.log = log
}

// Stats returns a snapshot of the executor counters. Safe to call from
// another goroutine while the executor runs.
func (e *Executor) Stats() Stats {
	return Stats{
		Commands: e.commands.Load(),
		Sleeps:   e.sleeps.Load(),
		NotesOn:  e.notesOn.Load(),
		NotesOff: e.notesOff.Load(),
	}
}

// Run executes the block until the source has finished and every timer has
// drained. It returns the script error, if any; the caller owns the sink
// connection and closes it regardless.
func (e *Executor) Run() error {
	e.now = e.clock.Now()
	done := false
	for {
		if !done {
			cmd, fin, err := e.src.Resume()
			if err != nil {
				return err
			}
			if fin {
				done = true
			} else if err := e.apply(cmd); err != nil {
				return err
			}
		}
		if !e.step(done) {
			return nil
		}
	}
}

// apply validates and executes a single command against the table. At most
// one command is applied per iteration, before any further time advance.
func (e *Executor) apply(cmd Command) error {
	e.commands.Add(1)
	switch c := cmd.(type) {
	case Play:
		if c.Note < 0 || c.Note >= NumNotes {
			return fmt.Errorf("sched: note %d outside 0..%d", c.Note, NumNotes-1)
		}
		if c.Duration < 0 {
			return fmt.Errorf("sched: negative note duration %v", c.Duration)
		}
		e.table.Activate(c.Note, c.Duration, sinkTap{e})
	case Sleep:
		if c.Duration < 0 {
			return fmt.Errorf("sched: negative sleep %v", c.Duration)
		}
		e.table.SetPause(c.Duration)
	default:
		return fmt.Errorf("sched: unknown command %T", cmd)
	}
	return nil
}

// step runs the wait phase. It returns false when the block has finished:
// the source is done and no timer remains active.
func (e *Executor) step(done bool) bool {
	e.forward()
	if !e.table.Paused() && !done {
		// More commands are expected without delay.
		return true
	}
	for {
		wait, ok := e.table.NextDeadline()
		if !ok {
			return !done
		}
		// Sleep until the originally scheduled instant: the deadline is
		// relative to the previous sample, so time already spent in the
		// command phase counts against the wait.
		target := e.prev + wait - e.now
		e.sleeps.Add(1)
		e.log.Debug("sleep", "seconds", target)
		e.sleep(target)
		e.forward()
		if !e.table.Paused() {
			return true
		}
		// The sleep undershot the pause deadline; sleep the remainder.
	}
}

// forward samples the clock once and charges the elapsed time to the
// table. A stalled or backward clock charges nothing.
func (e *Executor) forward() {
	e.prev = e.now
	e.now = e.clock.Now()
	e.table.Advance(e.now-e.prev, sinkTap{e})
}

// sinkTap forwards note transitions to the real sink while counting and
// logging them.
type sinkTap struct {
	e *Executor
}

func (t sinkTap) NoteOn(note uint8) {
	t.e.notesOn.Add(1)
	t.e.log.Debug("note on", "note", note)
	t.e.sink.NoteOn(note)
}

func (t sinkTap) NoteOff(note uint8) {
	t.e.notesOff.Add(1)
	t.e.log.Debug("note off", "note", note)
	t.e.sink.NoteOff(note)
}
