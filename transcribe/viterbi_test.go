package transcribe

import (
	"errors"
	"testing"
)

func oneHotSilence(size int) []float64 {
	v := make([]float64, size)
	v[0] = 1
	return v
}

func TestDecodeSettlesIntoSustain(t *testing.T) {
	// Always voiced, always exact pitch match for one note, no onsets:
	// after the mandatory one-frame onset the path must sit in that
	// note's sustain state until the end.
	rng := NoteRange{45, 50}
	const pitch = 47
	frames := make([]FrameEvidence, 40)
	for i := range frames {
		frames[i] = evidence(true, pitch, false)
	}
	transition, err := BuildTransitionMatrix(rng, 0.9, 0.7)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	priors, err := BuildPriors(frames, rng, 0.9, 0.9, 0.9, 0.2)
	if err != nil {
		t.Fatalf("priors: %v", err)
	}
	path, err := Decode(transition, priors, oneHotSilence(rng.NumStates()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(path) != len(frames) {
		t.Fatalf("path length %d, want %d", len(path), len(frames))
	}

	sustain := rng.StateIndex(State{Kind: KindSustain, Pitch: pitch})
	onset := rng.StateIndex(State{Kind: KindOnset, Pitch: pitch})
	sawOnset := false
	for i, s := range path {
		if s == sustain {
			continue
		}
		if s == onset && !sawOnset {
			sawOnset = true
			continue
		}
		if s == 0 && !sawOnset {
			// Leading silence before the attack is fine.
			continue
		}
		t.Fatalf("frame %d: state %d, expected onset %d then sustain %d", i, s, onset, sustain)
	}
	if path[len(path)-1] != sustain {
		t.Fatalf("final state %d, want sustain %d", path[len(path)-1], sustain)
	}
}

func TestDecodeSingleNoteScenario(t *testing.T) {
	// Single-note range A2..A2: 3 states. Two silent frames, an onset with
	// exact pitch, three sustained frames, one final unvoiced frame.
	rng := NoteRange{45, 45}
	frames := []FrameEvidence{
		evidence(false, 0, false),
		evidence(false, 0, false),
		evidence(true, 45, true),
		evidence(true, 45, false),
		evidence(true, 45, false),
		evidence(true, 45, false),
		evidence(false, 0, false),
	}
	transition, err := BuildTransitionMatrix(rng, 0.9, 0.7)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	// High detector accuracies so the final unvoiced frame pulls the path
	// back to silence instead of riding the sustain self-loop.
	priors, err := BuildPriors(frames, rng, 0.99, 0.99, 0.9, 0.2)
	if err != nil {
		t.Fatalf("priors: %v", err)
	}
	path, err := Decode(transition, priors, oneHotSilence(rng.NumStates()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []int{0, 0, 1, 2, 2, 2, 0}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestDecodeEmptyEvidenceFails(t *testing.T) {
	rng := NoteRange{45, 47}
	transition, err := BuildTransitionMatrix(rng, 0.9, 0.7)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	priors, err := BuildPriors(nil, rng, 0.9, 0.9, 0.9, 0.2)
	if err != nil {
		t.Fatalf("priors: %v", err)
	}
	if _, err := Decode(transition, priors, oneHotSilence(rng.NumStates())); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestDecodeDimensionMismatch(t *testing.T) {
	rng := NoteRange{45, 47}
	transition, err := BuildTransitionMatrix(rng, 0.9, 0.7)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	frames := []FrameEvidence{evidence(true, 45, false)}
	priors, err := BuildPriors(frames, NoteRange{45, 48}, 0.9, 0.9, 0.9, 0.2)
	if err != nil {
		t.Fatalf("priors: %v", err)
	}
	if _, err := Decode(transition, priors, oneHotSilence(rng.NumStates())); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for extra prior rows, got %v", err)
	}

	good, err := BuildPriors(frames, rng, 0.9, 0.9, 0.9, 0.2)
	if err != nil {
		t.Fatalf("priors: %v", err)
	}
	if _, err := Decode(transition, good, oneHotSilence(rng.NumStates()+1)); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for bad initial vector, got %v", err)
	}

	ragged := make([][]float64, len(good))
	copy(ragged, good)
	ragged[2] = ragged[2][:0]
	if _, err := Decode(transition, ragged, oneHotSilence(rng.NumStates())); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for ragged priors, got %v", err)
	}
}

func TestDecodeZeroProbabilityTransitionsNeverWin(t *testing.T) {
	// Silence cannot reach a sustain state directly. Even with priors that
	// scream "sustain" from frame zero, the decoder has to route through an
	// onset first.
	rng := NoteRange{45, 45}
	transition, err := BuildTransitionMatrix(rng, 0.9, 0.7)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	frames := []FrameEvidence{
		evidence(true, 45, false),
		evidence(true, 45, false),
	}
	priors, err := BuildPriors(frames, rng, 0.99, 0.99, 0.01, 0.2)
	if err != nil {
		t.Fatalf("priors: %v", err)
	}
	path, err := Decode(transition, priors, oneHotSilence(rng.NumStates()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := 1; i < len(path); i++ {
		if path[i-1] == 0 && path[i] == 2 {
			t.Fatalf("path %v jumps silence -> sustain over a zero-probability edge", path)
		}
	}
}
