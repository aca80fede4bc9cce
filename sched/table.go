package sched

import "math"

// Table tracks the remaining on-time of every note plus the pending pause.
// A remaining value ≤ 0 means inactive. The zero Table is ready to use;
// all timers start inactive and the slots are reused for the lifetime of
// the block.
type Table struct {
	notes [NumNotes]float64
	pause float64
}

// Advance subtracts elapsed seconds from every active timer, reporting
// each note that crosses zero to sink, in ascending note order. A
// non-positive elapsed is a strict no-op: the clock may be supplied by
// another process and is allowed to stall or jump backward, and neither
// may charge a timer or trigger a spurious transition.
func (t *Table) Advance(elapsed float64, sink Sink) {
	if elapsed <= 0 {
		return
	}
	for i := range t.notes {
		if t.notes[i] > 0 {
			t.notes[i] -= elapsed
			if t.notes[i] <= 0 {
				sink.NoteOff(uint8(i))
			}
		}
	}
	if t.pause > 0 {
		t.pause -= elapsed
	}
}

// Activate keeps the note on for at least duration seconds. The on event
// fires only on the inactive→active transition, before the timer is
// updated, so extending an already-sounding note never re-triggers it. A
// request shorter than the time already remaining leaves the timer
// untouched.
func (t *Table) Activate(note int, duration float64, sink Sink) {
	if t.notes[note] <= 0 {
		sink.NoteOn(uint8(note))
	}
	if t.notes[note] < duration {
		t.notes[note] = duration
	}
}

// SetPause replaces the pending pause with duration seconds.
func (t *Table) SetPause(duration float64) {
	t.pause = duration
}

// Paused reports whether a pause is still pending.
func (t *Table) Paused() bool {
	return t.pause > 0
}

// Remaining returns the seconds left before the note turns off, or a
// non-positive value for an inactive note.
func (t *Table) Remaining(note int) float64 {
	return t.notes[note]
}

// NextDeadline returns the smallest remaining time across the pause timer
// and every active note, and whether any timer is active at all.
func (t *Table) NextDeadline() (float64, bool) {
	minWait := math.Inf(1)
	if t.pause > 0 {
		minWait = t.pause
	}
	for i := range t.notes {
		if t.notes[i] > 0 && t.notes[i] < minWait {
			minWait = t.notes[i]
		}
	}
	if math.IsInf(minWait, 1) {
		return 0, false
	}
	return minWait, true
}
