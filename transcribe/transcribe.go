// Package transcribe turns per-frame pitch, voicing and onset evidence into
// a symbolic note sequence. It builds a hidden Markov model with one silence
// state and an onset/sustain state pair per note, scores each frame against
// the model, decodes the most likely state path with Viterbi and segments
// that path into discrete notes.
//
// The package is a pure pipeline: each stage owns its output exclusively and
// nothing holds process-wide state, so independent transcriptions can run
// concurrently without locking.
package transcribe

// Transcribe runs the full pipeline over a sequence of frame evidence:
// transition model, observation priors, Viterbi decode, segmentation.
// hopTime is the seconds between consecutive frames. obs may be nil.
//
// The initial distribution is a one-hot on the silence state: recordings
// are assumed to start silent.
func Transcribe(frames []FrameEvidence, hopTime float64, p *Params, obs Observer) ([]NoteEvent, error) {
	if p == nil {
		p = NewDefaultParams()
	}
	rng, err := p.Range()
	if err != nil {
		return nil, err
	}

	transition, err := BuildTransitionMatrix(rng, p.PStayNote, p.PStaySilence)
	if err != nil {
		return nil, err
	}

	priors, err := BuildPriors(frames, rng, p.PitchAcc, p.VoicedAcc, p.OnsetAcc, p.Spread)
	if err != nil {
		return nil, err
	}
	if obs != nil {
		obs.EvidenceBuilt(len(frames))
	}

	initial := make([]float64, rng.NumStates())
	initial[0] = 1

	path, err := Decode(transition, priors, initial)
	if err != nil {
		return nil, err
	}
	if obs != nil {
		obs.DecodingComplete(path)
	}

	notes := SegmentPianoRoll(path, rng.Min, hopTime)
	if obs != nil {
		obs.SegmentationComplete(notes)
	}
	return notes, nil
}
