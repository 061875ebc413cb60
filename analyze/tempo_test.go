package analyze

import (
	"math"
	"testing"
)

func TestEstimateTempoFromImpulseTrain(t *testing.T) {
	const (
		sampleRate = 22050
		hopLength  = 512
		period     = 20 // frames between beats
	)
	env := make([]float64, 400)
	for i := 0; i < len(env); i += period {
		env[i] = 1
	}
	frameRate := float64(sampleRate) / float64(hopLength)
	want := 60 * frameRate / period

	got := EstimateTempo(env, sampleRate, hopLength)
	if math.Abs(got-want) > 1 {
		t.Fatalf("estimated %.2f bpm, want %.2f", got, want)
	}
}

func TestEstimateTempoFlatEnvelopeFallsBack(t *testing.T) {
	env := make([]float64, 200)
	if got := EstimateTempo(env, 22050, 512); got != DefaultTempo {
		t.Fatalf("flat envelope gave %.2f bpm, want default %.0f", got, DefaultTempo)
	}
	for i := range env {
		env[i] = 0.5
	}
	if got := EstimateTempo(env, 22050, 512); got != DefaultTempo {
		t.Fatalf("constant envelope gave %.2f bpm, want default %.0f", got, DefaultTempo)
	}
}

func TestEstimateTempoDegenerateInput(t *testing.T) {
	if got := EstimateTempo(nil, 22050, 512); got != DefaultTempo {
		t.Fatalf("nil envelope gave %.2f bpm", got)
	}
	if got := EstimateTempo([]float64{1}, 22050, 512); got != DefaultTempo {
		t.Fatalf("single-frame envelope gave %.2f bpm", got)
	}
}
