package analyze

import (
	"math"
	"testing"
)

func TestEstimateTuningSharpRecording(t *testing.T) {
	// Contour 30 cents sharp across several notes.
	notes := []float64{57, 60, 64, 69, 72}
	var hz []float64
	var voiced []bool
	for _, n := range notes {
		f := 440 * math.Pow(2, (n+0.3-69)/12)
		for i := 0; i < 10; i++ {
			hz = append(hz, f)
			voiced = append(voiced, true)
		}
	}
	got := EstimateTuning(hz, voiced)
	if math.Abs(got-0.3) > 0.02 {
		t.Fatalf("estimated tuning %.3f, want 0.30", got)
	}
}

func TestEstimateTuningConcertPitch(t *testing.T) {
	hz := []float64{440, 220, 330.0}
	voiced := []bool{true, true, false}
	got := EstimateTuning(hz, voiced)
	if math.Abs(got) > 0.02 {
		t.Fatalf("estimated tuning %.3f for in-tune contour, want ~0", got)
	}
}

func TestEstimateTuningNoVoicedFrames(t *testing.T) {
	if got := EstimateTuning([]float64{440, 441}, []bool{false, false}); got != 0 {
		t.Fatalf("estimated %.3f with no voiced frames, want 0", got)
	}
}
