// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/drake/harmonia/sched"
)

// Enabled returns true if debug mode is active (HARMONIA_DEBUG=1).
func Enabled() bool {
	return os.Getenv("HARMONIA_DEBUG") == "1"
}

// Monitor periodically logs executor statistics when debug mode is
// enabled.
type Monitor struct {
	stats    func() sched.Stats
	interval time.Duration
	ctx      context.Context
	log      *slog.Logger
}

// NewMonitor creates a monitor over the given stats snapshot function.
// If debug mode is not enabled, returns nil.
func NewMonitor(ctx context.Context, stats func() sched.Stats) *Monitor {
	if !Enabled() {
		return nil
	}

	return &Monitor{
		stats:    stats,
		interval: 5 * time.Second,
		ctx:      ctx,
		log:      slog.Default(),
	}
}

// Start begins the monitoring loop in a goroutine.
func (m *Monitor) Start() {
	if m == nil {
		return
	}
	go m.run()
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Debug("monitor started")

	for {
		select {
		case <-m.ctx.Done():
			m.log.Debug("monitor stopped")
			return
		case <-ticker.C:
			s := m.stats()
			m.log.Debug("executor",
				"commands", s.Commands,
				"sleeps", s.Sleeps,
				"notes_on", s.NotesOn,
				"notes_off", s.NotesOff,
				"active", s.ActiveNotes(),
			)
		}
	}
}
