package analyze

import (
	"math"

	"github.com/tiagoft/audio-to-midi/transcribe"
)

// ContourToEvidence merges a pitch contour, voicing flags and onset frame
// indices into the evidence sequence the transcription model consumes.
// tuning (fractional semitones, from EstimateTuning) is subtracted before
// rounding the contour to integer notes, so an off-concert-pitch recording
// still lands on the intended semitones. Onset indices outside the contour
// are discarded.
func ContourToEvidence(hz []float64, voiced []bool, onsets []int, tuning float64) []transcribe.FrameEvidence {
	onsetAt := make(map[int]bool, len(onsets))
	for _, f := range onsets {
		if f >= 0 && f < len(hz) {
			onsetAt[f] = true
		}
	}

	frames := make([]transcribe.FrameEvidence, len(hz))
	for t := range hz {
		ev := transcribe.FrameEvidence{Onset: onsetAt[t]}
		if t < len(voiced) && voiced[t] && hz[t] > 0 {
			ev.Voiced = true
			ev.Pitch = int(math.Round(HzToMidi(hz[t]) - tuning))
			ev.PitchValid = true
		}
		frames[t] = ev
	}
	return frames
}
