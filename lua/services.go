package lua

import (
	"github.com/drake/harmonia/clock"
	"github.com/drake/harmonia/sched"
)

// SinkConn is a device connection held for the duration of one block.
type SinkConn interface {
	sched.Sink
	Close() error
}

// ClockConn is a time source held for the duration of one block.
type ClockConn interface {
	clock.Source
	Close() error
}

// Services is the bridge between scripts and the rest of the system. It
// decouples the engine from real MIDI ports and clock regions, making
// blocks testable without hardware.
type Services interface {
	// OpenSink opens the device connection for one block.
	OpenSink() (SinkConn, error)

	// OpenClock opens the time source named by the script. An empty name
	// selects the local clock; anything else names a shared clock region
	// published by another process.
	OpenClock(name string) (ClockConn, error)
}
