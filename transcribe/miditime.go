package transcribe

import "fmt"

// DefaultVelocity is the fixed velocity stamped on every emitted event.
// Dynamics are not modelled.
const DefaultVelocity = 100

// MidiNoteEvent is a note positioned in musical time (beats).
type MidiNoteEvent struct {
	StartBeat     float64
	DurationBeats float64
	Pitch         int
	Velocity      int
}

// ToMusicalTime converts note timestamps from seconds to beats at the given
// tempo. One beat is a quarter note lasting 60/bpm seconds.
func ToMusicalTime(notes []NoteEvent, bpm float64) ([]MidiNoteEvent, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("%w: bpm=%g", ErrInvalidTempo, bpm)
	}
	quarter := 60 / bpm

	events := make([]MidiNoteEvent, len(notes))
	for i, n := range notes {
		start := n.OnsetSec / quarter
		end := n.OffsetSec / quarter
		events[i] = MidiNoteEvent{
			StartBeat:     start,
			DurationBeats: end - start,
			Pitch:         n.Pitch,
			Velocity:      DefaultVelocity,
		}
	}
	return events, nil
}
