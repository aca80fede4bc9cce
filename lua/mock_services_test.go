package lua

import (
	"github.com/drake/harmonia/clock"
	"github.com/drake/harmonia/midi"
)

// mockServices implements Services for tests: a recording sink and the
// local clock regardless of the requested region name.
type mockServices struct {
	sink       *midi.Mock
	clockNames []string
	sinkErr    error
}

func newMockServices() *mockServices {
	return &mockServices{sink: midi.NewMock()}
}

func (m *mockServices) OpenSink() (SinkConn, error) {
	if m.sinkErr != nil {
		return nil, m.sinkErr
	}
	return m.sink, nil
}

func (m *mockServices) OpenClock(name string) (ClockConn, error) {
	m.clockNames = append(m.clockNames, name)
	return systemConn{clock.NewSystem()}, nil
}

// systemConn adapts the local clock to the per-block connection contract.
type systemConn struct {
	*clock.System
}

func (systemConn) Close() error { return nil }
