package transcribe

// Params holds the full transcription configuration surface.
type Params struct {
	// Note range the model can transcribe, in scientific pitch notation.
	NoteMin string
	NoteMax string

	// PStayNote is the probability of a sustain state looping onto itself;
	// PStaySilence the same for the silence state. Both must be in (0,1).
	PStayNote    float64
	PStaySilence float64

	// Estimated accuracies of the external detectors, in [0,1].
	PitchAcc  float64
	VoicedAcc float64
	OnsetAcc  float64

	// Spread is the probability of a one-semitone deviation due to
	// vibrato or glissando.
	Spread float64

	// Analysis window parameters, passed through to the pitch estimator.
	// The core only uses their ratio to the sample rate via the hop time.
	FrameLength int
	HopLength   int
}

// NewDefaultParams creates default parameters.
func NewDefaultParams() *Params {
	return &Params{
		NoteMin:      "A2",
		NoteMax:      "E5",
		PStayNote:    0.9,
		PStaySilence: 0.7,
		PitchAcc:     0.9,
		VoicedAcc:    0.9,
		OnsetAcc:     0.9,
		Spread:       0.2,
		FrameLength:  2048,
		HopLength:    512,
	}
}

// Range parses the configured note range.
func (p *Params) Range() (NoteRange, error) {
	return ParseNoteRange(p.NoteMin, p.NoteMax)
}
