// Package midi is the device sink: it turns scheduler note transitions
// into MIDI messages on a real output port, and provides the pitch-name
// helpers the scripting layer uses.
package midi

import (
	"fmt"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// DefaultVelocity is the note-on velocity used when none is configured.
const DefaultVelocity = 100

// Out sends note on/off messages to one MIDI output port. It is opened
// once before a block starts and closed exactly once when the block ends,
// whether the block succeeded or failed.
type Out struct {
	drv      *rtmididrv.Driver
	port     drivers.Out
	send     func(gomidi.Message) error
	velocity uint8
	closed   bool
}

// OpenOut opens the first output port whose name contains name, or the
// first available port when name is empty.
func OpenOut(name string, velocity uint8) (*Out, error) {
	if velocity == 0 {
		velocity = DefaultVelocity
	}

	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midi: driver: %w", err)
	}
	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("midi: list outputs: %w", err)
	}

	var port drivers.Out
	for _, o := range outs {
		if name == "" || strings.Contains(o.String(), name) {
			port = o
			break
		}
	}
	if port == nil {
		drv.Close()
		return nil, fmt.Errorf("midi: no output port matching %q", name)
	}
	if err := port.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("midi: open %s: %w", port, err)
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		port.Close()
		drv.Close()
		return nil, fmt.Errorf("midi: sender for %s: %w", port, err)
	}

	return &Out{drv: drv, port: port, send: send, velocity: velocity}, nil
}

// NoteOn starts the note on channel 0.
func (o *Out) NoteOn(note uint8) {
	o.send(gomidi.NoteOn(0, note, o.velocity))
}

// NoteOff releases the note on channel 0.
func (o *Out) NoteOff(note uint8) {
	o.send(gomidi.NoteOff(0, note))
}

// Close releases the port and driver. Safe to call more than once.
func (o *Out) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	err := o.port.Close()
	if derr := o.drv.Close(); err == nil {
		err = derr
	}
	return err
}

// Ports returns the names of the available MIDI output ports.
func Ports() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midi: driver: %w", err)
	}
	defer drv.Close()

	outs, err := drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("midi: list outputs: %w", err)
	}
	names := make([]string, len(outs))
	for i, o := range outs {
		names[i] = o.String()
	}
	return names, nil
}
