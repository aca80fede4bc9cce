package main

import (
	"context"

	"github.com/drake/harmonia/clock"
	"github.com/drake/harmonia/config"
	"github.com/drake/harmonia/lua"
	"github.com/drake/harmonia/midi"
)

// deviceServices wires scripts to real hardware: MIDI output ports and
// shared clock regions.
type deviceServices struct {
	ctx context.Context
	cfg config.Settings
}

func (s *deviceServices) OpenSink() (lua.SinkConn, error) {
	return midi.OpenOut(s.cfg.Port, s.cfg.Velocity)
}

func (s *deviceServices) OpenClock(name string) (lua.ClockConn, error) {
	if name == "" {
		return localClock{clock.NewSystem()}, nil
	}
	return clock.Open(s.ctx, s.cfg.RegionDir, name)
}

// localClock adapts the system clock to the per-block connection contract.
type localClock struct {
	*clock.System
}

func (localClock) Close() error { return nil }
