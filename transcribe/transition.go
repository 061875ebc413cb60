package transcribe

import "fmt"

// BuildTransitionMatrix constructs the HMM transition matrix for the given
// note range. The state space has one silence state plus an onset/sustain
// pair per note:
//
//	state 0:      silence
//	state 2i+1:   onset of note r.Min+i
//	state 2i+2:   sustain of note r.Min+i
//
// Silence either stays silent or moves to an onset, uniformly over notes.
// An onset always advances to its own sustain on the next frame. A sustain
// loops with pStayNote and otherwise ends in silence or re-attacks any note
// (including its own, which is how repeated notes are modelled), uniformly.
//
// Every row of the returned matrix sums to 1.
func BuildTransitionMatrix(r NoteRange, pStayNote, pStaySilence float64) ([][]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if pStayNote <= 0 || pStayNote >= 1 {
		return nil, fmt.Errorf("%w: p_stay_note=%g (want 0 < p < 1)", ErrInvalidProbability, pStayNote)
	}
	if pStaySilence <= 0 || pStaySilence >= 1 {
		return nil, fmt.Errorf("%w: p_stay_silence=%g (want 0 < p < 1)", ErrInvalidProbability, pStaySilence)
	}

	n := r.NumNotes()
	size := r.NumStates()
	pLeaveSilence := (1 - pStaySilence) / float64(n)
	pLeaveNote := (1 - pStayNote) / float64(n+1)

	m := make([][]float64, size)
	for i := range m {
		m[i] = make([]float64, size)
	}

	m[0][0] = pStaySilence
	for i := 0; i < n; i++ {
		m[0][2*i+1] = pLeaveSilence
	}

	for i := 0; i < n; i++ {
		m[2*i+1][2*i+2] = 1
	}

	for i := 0; i < n; i++ {
		m[2*i+2][0] = pLeaveNote
		m[2*i+2][2*i+2] = pStayNote
		for j := 0; j < n; j++ {
			m[2*i+2][2*j+1] = pLeaveNote
		}
	}

	return m, nil
}
