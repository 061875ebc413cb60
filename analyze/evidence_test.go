package analyze

import (
	"testing"
)

func TestContourToEvidence(t *testing.T) {
	hz := []float64{0, 440, 441, 0}
	voiced := []bool{false, true, true, false}
	onsets := []int{1, 7} // 7 is out of range and must be dropped

	frames := ContourToEvidence(hz, voiced, onsets, 0)
	if len(frames) != len(hz) {
		t.Fatalf("got %d frames, want %d", len(frames), len(hz))
	}
	if frames[0].Voiced || frames[0].PitchValid || frames[0].Onset {
		t.Fatalf("frame 0 should be silent: %+v", frames[0])
	}
	if !frames[1].Voiced || !frames[1].PitchValid || frames[1].Pitch != 69 || !frames[1].Onset {
		t.Fatalf("frame 1 should be a voiced A4 onset: %+v", frames[1])
	}
	if frames[2].Pitch != 69 || frames[2].Onset {
		t.Fatalf("frame 2 should be a voiced A4 without onset: %+v", frames[2])
	}
	if frames[3].Voiced || frames[3].PitchValid {
		t.Fatalf("frame 3 should be unvoiced: %+v", frames[3])
	}
}

func TestContourToEvidenceAppliesTuning(t *testing.T) {
	// 30 cents sharp: with the tuning correction the frame still rounds
	// to A4 rather than drifting to A#4 on noisy frames.
	hz := []float64{452.9} // ~midi 69.5
	voiced := []bool{true}
	frames := ContourToEvidence(hz, voiced, nil, 0.5)
	if frames[0].Pitch != 69 {
		t.Fatalf("tuned pitch %d, want 69", frames[0].Pitch)
	}
	frames = ContourToEvidence(hz, voiced, nil, 0)
	if frames[0].Pitch != 70 {
		t.Fatalf("untuned pitch %d, want 70", frames[0].Pitch)
	}
}
