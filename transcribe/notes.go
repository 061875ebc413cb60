package transcribe

import (
	"fmt"
	"strconv"
	"strings"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var noteOffsets = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// NoteName returns the scientific pitch name of a MIDI note number,
// e.g. 45 -> "A2", 70 -> "A#4". MIDI note 0 is "C-1".
func NoteName(midi int) string {
	return fmt.Sprintf("%s%d", noteNames[((midi%12)+12)%12], midi/12-1)
}

// ParseNote converts a scientific pitch name like "A2", "A#4" or "Bb3"
// into a MIDI note number.
func ParseNote(name string) (int, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return 0, fmt.Errorf("empty note name")
	}
	letter := strings.ToUpper(s[:1])
	offset, ok := noteOffsets[letter]
	if !ok {
		return 0, fmt.Errorf("invalid note name %q", name)
	}
	rest := s[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case '#':
			offset++
			rest = rest[1:]
		case 'b':
			offset--
			rest = rest[1:]
		default:
			octave, err := strconv.Atoi(rest)
			if err != nil {
				return 0, fmt.Errorf("invalid note name %q", name)
			}
			return (octave+1)*12 + offset, nil
		}
	}
	return 0, fmt.Errorf("invalid note name %q (missing octave)", name)
}

// NoteRange is the closed pitch interval the model can transcribe,
// in MIDI note numbers.
type NoteRange struct {
	Min int
	Max int
}

// ParseNoteRange builds a NoteRange from two note names, e.g. "A2", "E5".
func ParseNoteRange(min, max string) (NoteRange, error) {
	lo, err := ParseNote(min)
	if err != nil {
		return NoteRange{}, err
	}
	hi, err := ParseNote(max)
	if err != nil {
		return NoteRange{}, err
	}
	r := NoteRange{Min: lo, Max: hi}
	return r, r.Validate()
}

func (r NoteRange) Validate() error {
	if r.Max < r.Min {
		return fmt.Errorf("%w: max %d < min %d", ErrInvalidRange, r.Max, r.Min)
	}
	return nil
}

// NumNotes returns the number of distinct pitches in the range.
func (r NoteRange) NumNotes() int {
	return r.Max - r.Min + 1
}

// NumStates returns the size of the HMM state space: one silence state
// plus an onset and a sustain state per note.
func (r NoteRange) NumStates() int {
	return 2*r.NumNotes() + 1
}

// StateKind distinguishes the three classes of hidden state.
type StateKind int

const (
	KindSilence StateKind = iota
	KindOnset
	KindSustain
)

func (k StateKind) String() string {
	switch k {
	case KindSilence:
		return "silence"
	case KindOnset:
		return "onset"
	case KindSustain:
		return "sustain"
	}
	return "unknown"
}

// State is the tagged form of a hidden state. Pitch is a MIDI note number
// and is meaningful only for onset and sustain states.
type State struct {
	Kind  StateKind
	Pitch int
}

// StateAt maps a decode-time state index to its tagged form.
// Index 0 is silence; odd indices are onsets, even indices sustains,
// in semitone order from r.Min.
func (r NoteRange) StateAt(index int) State {
	if index == 0 {
		return State{Kind: KindSilence}
	}
	pitch := (index-1)/2 + r.Min
	if index%2 == 1 {
		return State{Kind: KindOnset, Pitch: pitch}
	}
	return State{Kind: KindSustain, Pitch: pitch}
}

// StateIndex maps a tagged state back to its decode-time index.
func (r NoteRange) StateIndex(s State) int {
	switch s.Kind {
	case KindOnset:
		return 2*(s.Pitch-r.Min) + 1
	case KindSustain:
		return 2*(s.Pitch-r.Min) + 2
	}
	return 0
}
