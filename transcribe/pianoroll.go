package transcribe

// NoteEvent is one transcribed note on the piano roll, in seconds.
type NoteEvent struct {
	OnsetSec  float64
	OffsetSec float64
	Pitch     int
	Name      string
}

type scanState int

const (
	scanSilence scanState = iota
	scanOnset
	scanSustain
)

// SegmentPianoRoll converts a decoded state path into discrete notes.
// minPitch is the low end of the note range the path was decoded against
// and hopTime the seconds between consecutive frames.
//
// The scanner appends an implicit silence frame so a note still sounding at
// the end of the path is closed at len(path)*hopTime. Onset states are one
// frame long by construction of the transition matrix, but the scanner waits
// for the observed onset->sustain step anyway. An onset seen while in
// sustain closes the current note and opens the next one at the same frame,
// which is how back-to-back repeated notes come out as two events.
func SegmentPianoRoll(path []int, minPitch int, hopTime float64) []NoteEvent {
	var notes []NoteEvent

	state := scanSilence
	var onsetTime float64
	var pitch int

	for i := 0; i <= len(path); i++ {
		s := 0
		if i < len(path) {
			s = path[i]
		}
		t := float64(i) * hopTime

		switch state {
		case scanSilence:
			if s%2 != 0 {
				onsetTime = t
				pitch = (s-1)/2 + minPitch
				state = scanOnset
			}

		case scanOnset:
			if s%2 == 0 {
				state = scanSustain
			}

		case scanSustain:
			if s%2 != 0 {
				// Retrigger: close the running note, open the next.
				notes = append(notes, NoteEvent{
					OnsetSec:  onsetTime,
					OffsetSec: t,
					Pitch:     pitch,
					Name:      NoteName(pitch),
				})
				onsetTime = t
				pitch = (s-1)/2 + minPitch
				state = scanOnset
			} else if s == 0 {
				notes = append(notes, NoteEvent{
					OnsetSec:  onsetTime,
					OffsetSec: t,
					Pitch:     pitch,
					Name:      NoteName(pitch),
				})
				state = scanSilence
			}
		}
	}

	return notes
}
