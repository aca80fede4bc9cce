package midi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// semitones of each natural from C.
var semitones = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

// Pitch names look like "C4", "f#3" or "Bb-1". Middle C ("C4") is note 60.
var pitchRe = regexp.MustCompile(`^([A-Ga-g])([#b]?)(-?\d+)$`)

// Scripts tend to repeat a handful of pitch names every loop iteration, so
// parse results are cached.
var parseCache, _ = lru.New[string, int](256)

// ParseNote converts a pitch name to a MIDI note number.
func ParseNote(name string) (int, error) {
	if n, ok := parseCache.Get(name); ok {
		return n, nil
	}

	m := pitchRe.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("midi: bad pitch name %q", name)
	}

	n := semitones[strings.ToUpper(m[1])]
	switch m[2] {
	case "#":
		n++
	case "b":
		n--
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("midi: bad pitch name %q", name)
	}
	n += (octave + 1) * 12
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("midi: pitch %q out of range", name)
	}

	parseCache.Add(name, n)
	return n, nil
}

// NoteName returns the display name of a MIDI note number, e.g. 60 → "C4".
func NoteName(note int) string {
	if note < 0 || note > 127 {
		return fmt.Sprintf("?%d", note)
	}
	return fmt.Sprintf("%s%d", noteNames[note%12], note/12-1)
}
