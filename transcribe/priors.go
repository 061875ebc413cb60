package transcribe

import "fmt"

// FrameEvidence is the per-frame output of the external pitch, voicing and
// onset estimators, aligned 1:1 with analysis frames at a fixed hop.
type FrameEvidence struct {
	// Voiced reports whether the frame carries a detectable periodic signal.
	Voiced bool
	// Pitch is the detected fundamental rounded to the nearest MIDI note.
	// Only meaningful when PitchValid is true.
	Pitch int
	// PitchValid is false when the estimator found no usable pitch
	// (typically on unvoiced frames).
	PitchValid bool
	// Onset reports whether an attack was detected at this frame.
	Onset bool
}

// BuildPriors computes the observation likelihood matrix priors[state][frame]
// for a sequence of frame evidence. The entries are independent likelihood
// factors in [0,1], not a normalized distribution; the decoder combines them
// multiplicatively in log space.
//
// pitchAcc, voicedAcc and onsetAcc are the estimated accuracies of the
// corresponding external detectors; spread is the probability of a
// one-semitone deviation due to vibrato or glissando.
//
// A frame with no valid pitch counts as "far from every note" for the
// sustain rows, so unvoiced stretches actively push the path toward
// silence instead of being skipped.
func BuildPriors(frames []FrameEvidence, r NoteRange, pitchAcc, voicedAcc, onsetAcc, spread float64) ([][]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"pitch_acc", pitchAcc},
		{"voiced_acc", voicedAcc},
		{"onset_acc", onsetAcc},
		{"spread", spread},
	} {
		if p.val < 0 || p.val > 1 {
			return nil, fmt.Errorf("%w: %s=%g (want 0 <= p <= 1)", ErrInvalidProbability, p.name, p.val)
		}
	}

	n := r.NumNotes()
	priors := make([][]float64, r.NumStates())
	for i := range priors {
		priors[i] = make([]float64, len(frames))
	}

	for t, ev := range frames {
		if ev.Voiced {
			priors[0][t] = 1 - voicedAcc
		} else {
			priors[0][t] = voicedAcc
		}

		pOnset := 1 - onsetAcc
		if ev.Onset {
			pOnset = onsetAcc
		}

		for j := 0; j < n; j++ {
			priors[2*j+1][t] = pOnset

			note := j + r.Min
			switch {
			case ev.PitchValid && ev.Pitch == note:
				priors[2*j+2][t] = pitchAcc
			case ev.PitchValid && (ev.Pitch == note-1 || ev.Pitch == note+1):
				priors[2*j+2][t] = pitchAcc * spread
			default:
				priors[2*j+2][t] = 1 - pitchAcc
			}
		}
	}

	return priors, nil
}
