package lua

import (
	"fmt"

	"github.com/drake/harmonia/midi"
	"github.com/drake/harmonia/sched"
	glua "github.com/yuin/gopher-lua"
)

// blockSource adapts a Lua coroutine to the scheduler's command source:
// each Resume runs the coroutine until its next yield, and the yielded
// values name the command. The coroutine may suspend for any amount of
// its own computation between yields.
type blockSource struct {
	host *glua.LState
	co   *glua.LState
	fn   *glua.LFunction
}

func (s *blockSource) Resume() (sched.Command, bool, error) {
	st, err, values := s.host.Resume(s.co, s.fn)
	switch st {
	case glua.ResumeOK:
		return nil, true, nil
	case glua.ResumeError:
		return nil, false, fmt.Errorf("lua: %w", err)
	}
	cmd, err := parseCommand(values)
	if err != nil {
		return nil, false, err
	}
	return cmd, false, nil
}

// parseCommand maps yielded values to a scheduler command. Anything that
// is not a well-formed play or sleep is a script error.
func parseCommand(values []glua.LValue) (sched.Command, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("lua: block yielded no action")
	}
	action, ok := values[0].(glua.LString)
	if !ok {
		return nil, fmt.Errorf("lua: failed to recognize action (%s)", values[0].Type())
	}

	switch string(action) {
	case "play":
		if len(values) < 3 {
			return nil, fmt.Errorf("lua: play needs a note and a duration")
		}
		note, err := noteArg(values[1])
		if err != nil {
			return nil, err
		}
		dur, err := numberArg("duration", values[2])
		if err != nil {
			return nil, err
		}
		return sched.Play{Note: note, Duration: dur}, nil

	case "sleep":
		if len(values) < 2 {
			return nil, fmt.Errorf("lua: sleep needs a duration")
		}
		dur, err := numberArg("duration", values[1])
		if err != nil {
			return nil, err
		}
		return sched.Sleep{Duration: dur}, nil
	}

	return nil, fmt.Errorf("lua: failed to recognize action %q", action)
}

// noteArg accepts a MIDI note number or a pitch name like "C#4".
func noteArg(v glua.LValue) (int, error) {
	switch n := v.(type) {
	case glua.LNumber:
		return int(n), nil
	case glua.LString:
		return midi.ParseNote(string(n))
	}
	return 0, fmt.Errorf("lua: bad note (%s)", v.Type())
}

func numberArg(what string, v glua.LValue) (float64, error) {
	n, ok := v.(glua.LNumber)
	if !ok {
		return 0, fmt.Errorf("lua: bad %s (%s)", what, v.Type())
	}
	return float64(n), nil
}
