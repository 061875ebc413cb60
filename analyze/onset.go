package analyze

import (
	"github.com/tiagoft/audio-to-midi/dsp"
)

// OnsetStrength computes a spectral flux envelope on the analysis grid:
// per frame, the sum of positive magnitude increases across all bins,
// normalized to a 0..1 peak and smoothed with a lowpass biquad.
func OnsetStrength(samples []float64, sampleRate, frameLength, hopLength int) ([]float64, error) {
	// Remove DC and rumble so a slow level drift doesn't read as flux.
	hp := dsp.NewHighpass(30, float64(sampleRate), 0.707)
	filtered := hp.ProcessBlock(samples)

	sg, err := ComputeSpectrogram(filtered, sampleRate, frameLength, hopLength)
	if err != nil {
		return nil, err
	}

	env := make([]float64, len(sg.Mag))
	for t := 1; t < len(sg.Mag); t++ {
		var flux float64
		for k := 0; k < sg.NumBins; k++ {
			if d := sg.Mag[t][k] - sg.Mag[t-1][k]; d > 0 {
				flux += d
			}
		}
		env[t] = flux
	}

	var peak float64
	for _, v := range env {
		if v > peak {
			peak = v
		}
	}
	if peak > 0 {
		for i := range env {
			env[i] /= peak
		}
	}

	// Smooth at the frame rate; ~10 Hz keeps attacks sharp but kills
	// bin-to-bin jitter.
	frameRate := float64(sampleRate) / float64(hopLength)
	lp := dsp.NewLowpass(10, frameRate, 0.707)
	return lp.ProcessBlock(env), nil
}

// DetectOnsets returns the frame indices of detected note attacks.
//
// Peaks of the onset strength envelope are accepted when they exceed a
// local mean by a fixed delta and are separated by a minimum gap, then
// backtracked to the preceding local minimum so the reported frame sits at
// the start of the attack rather than its crest.
func DetectOnsets(samples []float64, sampleRate, frameLength, hopLength int) ([]int, error) {
	env, err := OnsetStrength(samples, sampleRate, frameLength, hopLength)
	if err != nil {
		return nil, err
	}
	return pickOnsetPeaks(env, sampleRate, hopLength), nil
}

func pickOnsetPeaks(env []float64, sampleRate, hopLength int) []int {
	const (
		meanWindow = 10   // frames on each side of the local mean
		delta      = 0.05 // required excess over the local mean
	)
	frameRate := float64(sampleRate) / float64(hopLength)
	minGap := int(0.03 * frameRate) // 30ms between distinct attacks
	if minGap < 1 {
		minGap = 1
	}

	var onsets []int
	lastOnset := -minGap - 1
	for t := 1; t < len(env)-1; t++ {
		if env[t] < env[t-1] || env[t] <= env[t+1] {
			continue
		}

		lo := t - meanWindow
		if lo < 0 {
			lo = 0
		}
		hi := t + meanWindow
		if hi >= len(env) {
			hi = len(env) - 1
		}
		var mean float64
		for i := lo; i <= hi; i++ {
			mean += env[i]
		}
		mean /= float64(hi - lo + 1)
		if env[t] < mean+delta {
			continue
		}
		if t-lastOnset < minGap {
			continue
		}

		// Backtrack to the local minimum preceding the crest.
		start := t
		for start > 0 && env[start-1] < env[start] {
			start--
		}
		onsets = append(onsets, start)
		lastOnset = t
	}
	return onsets
}
