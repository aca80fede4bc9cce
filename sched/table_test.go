package sched

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSink captures note transitions in order.
type recordSink struct {
	events []string
}

func (r *recordSink) NoteOn(note uint8)  { r.events = append(r.events, fmt.Sprintf("on %d", note)) }
func (r *recordSink) NoteOff(note uint8) { r.events = append(r.events, fmt.Sprintf("off %d", note)) }

func TestActivateEmitsOnExactlyOnce(t *testing.T) {
	var tbl Table
	sink := &recordSink{}

	tbl.Activate(60, 1.0, sink)
	tbl.Activate(60, 2.0, sink)
	tbl.Activate(60, 0.5, sink)

	assert.Equal(t, []string{"on 60"}, sink.events)
	assert.Equal(t, 2.0, tbl.Remaining(60))
}

func TestActivateMonotoneExtension(t *testing.T) {
	var tbl Table
	sink := &recordSink{}

	tbl.Activate(3, 0.5, sink)
	// A later, smaller request must never shorten the pending duration.
	tbl.Activate(3, 0.2, sink)
	assert.Equal(t, 0.5, tbl.Remaining(3))

	tbl.Activate(3, 0.9, sink)
	assert.Equal(t, 0.9, tbl.Remaining(3))
}

func TestActivateAfterExpiryRetriggers(t *testing.T) {
	var tbl Table
	sink := &recordSink{}

	tbl.Activate(7, 0.1, sink)
	tbl.Advance(0.2, sink)
	tbl.Activate(7, 0.1, sink)

	assert.Equal(t, []string{"on 7", "off 7", "on 7"}, sink.events)
}

func TestAdvanceNonPositiveIsNoOp(t *testing.T) {
	var tbl Table
	sink := &recordSink{}
	tbl.Activate(10, 0.05, sink)
	tbl.SetPause(0.05)
	sink.events = nil

	tbl.Advance(0, sink)
	tbl.Advance(-3.5, sink)

	assert.Empty(t, sink.events)
	assert.Equal(t, 0.05, tbl.Remaining(10))
	assert.True(t, tbl.Paused())
}

func TestAdvanceEmitsOffInAscendingNoteOrder(t *testing.T) {
	var tbl Table
	sink := &recordSink{}
	for _, n := range []int{9, 3, 127, 0} {
		tbl.Activate(n, 0.1, sink)
	}
	sink.events = nil

	tbl.Advance(0.2, sink)

	assert.Equal(t, []string{"off 0", "off 3", "off 9", "off 127"}, sink.events)
}

func TestPauseEmitsNoEvents(t *testing.T) {
	var tbl Table
	sink := &recordSink{}

	tbl.SetPause(0.1)
	d, ok := tbl.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, 0.1, d)

	tbl.Advance(0.2, sink)
	assert.False(t, tbl.Paused())
	assert.Empty(t, sink.events)
}

func TestNextDeadlineEmpty(t *testing.T) {
	var tbl Table
	_, ok := tbl.NextDeadline()
	assert.False(t, ok)
}

func TestNextDeadlineIsTrueMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sink := &recordSink{}

	for i := 0; i < 200; i++ {
		var tbl Table
		want := math.Inf(1)

		for _, n := range rng.Perm(NumNotes)[:rng.Intn(NumNotes)] {
			d := rng.Float64()*10 + 0.001
			tbl.Activate(n, d, sink)
			if d < want {
				want = d
			}
		}
		if rng.Intn(2) == 0 {
			d := rng.Float64()*10 + 0.001
			tbl.SetPause(d)
			if d < want {
				want = d
			}
		}

		got, ok := tbl.NextDeadline()
		if math.IsInf(want, 1) {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}
