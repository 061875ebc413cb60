package analyze

import (
	"fmt"
	"math"
)

// PitchConfig bounds and tunes the fundamental frequency estimator.
type PitchConfig struct {
	SampleRate  int
	FrameLength int
	HopLength   int

	// FMin/FMax bound the search. The transcription pipeline passes the
	// configured note range widened by 10% on each side so edge notes
	// played slightly flat or sharp stay inside the band.
	FMin float64
	FMax float64

	// VoicingThreshold is the minimum spectral peak-to-mean ratio for a
	// frame to count as voiced. SilenceRMS is the level floor below which
	// a frame is unvoiced regardless of shape.
	VoicingThreshold float64
	SilenceRMS       float64
}

// DefaultPitchConfig returns the estimator settings used by the CLI for a
// given sample rate and note range bounds in Hz.
func DefaultPitchConfig(sampleRate int, fmin, fmax float64) PitchConfig {
	return PitchConfig{
		SampleRate:       sampleRate,
		FrameLength:      2048,
		HopLength:        512,
		FMin:             fmin * 0.9,
		FMax:             fmax * 1.1,
		VoicingThreshold: 10,
		SilenceRMS:       1e-4,
	}
}

const hpsHarmonics = 4

// EstimatePitch returns a per-frame fundamental frequency contour in Hz and
// a voicing flag per frame. Unvoiced frames carry hz=0.
//
// Per frame it scores fundamental candidates with a harmonic sum over the
// magnitude spectrum (log-compressed, 1/h weighted so a strong harmonic
// cannot outvote the true fundamental) and refines the winning bin by
// quadratic interpolation. Voicing combines an RMS gate with the spectral
// peak-to-mean ratio.
func EstimatePitch(samples []float64, cfg PitchConfig) ([]float64, []bool, error) {
	if cfg.SampleRate <= 0 {
		return nil, nil, fmt.Errorf("invalid sample rate %d", cfg.SampleRate)
	}
	if cfg.FMin <= 0 || cfg.FMax <= cfg.FMin {
		return nil, nil, fmt.Errorf("invalid pitch band [%g, %g]", cfg.FMin, cfg.FMax)
	}

	sg, err := ComputeSpectrogram(samples, cfg.SampleRate, cfg.FrameLength, cfg.HopLength)
	if err != nil {
		return nil, nil, err
	}
	rms := FrameRMS(samples, cfg.FrameLength, cfg.HopLength)

	binHz := sg.BinHz()
	kMin := int(math.Ceil(cfg.FMin / binHz))
	if kMin < 1 {
		kMin = 1
	}
	kMax := int(math.Floor(cfg.FMax / binHz))
	if kMax > sg.NumBins-2 {
		kMax = sg.NumBins - 2
	}
	if kMax < kMin {
		return nil, nil, fmt.Errorf("pitch band [%g, %g] too narrow for %d bins of %g Hz",
			cfg.FMin, cfg.FMax, sg.NumBins, binHz)
	}

	hz := make([]float64, len(sg.Mag))
	voiced := make([]bool, len(sg.Mag))

	for t, mag := range sg.Mag {
		if rms[t] < cfg.SilenceRMS {
			continue
		}

		bestK := -1
		bestScore := math.Inf(-1)
		for k := kMin; k <= kMax; k++ {
			var score float64
			for h := 1; h <= hpsHarmonics && h*k < sg.NumBins; h++ {
				score += math.Log1p(mag[h*k]) / float64(h)
			}
			if score > bestScore {
				bestScore = score
				bestK = k
			}
		}
		if bestK < 1 {
			continue
		}

		// Snap to the nearest local maximum before interpolating.
		k := bestK
		for k+1 < sg.NumBins-1 && mag[k+1] > mag[k] {
			k++
		}
		for k-1 >= 1 && mag[k-1] > mag[k] {
			k--
		}

		var mean float64
		for _, m := range mag {
			mean += m
		}
		mean /= float64(len(mag))
		if mean <= 0 || mag[k]/mean < cfg.VoicingThreshold {
			continue
		}

		hz[t] = (float64(k) + quadraticPeakOffset(mag[k-1], mag[k], mag[k+1])) * binHz
		voiced[t] = true
	}

	return hz, voiced, nil
}

// quadraticPeakOffset fits a parabola through three points around a peak
// and returns the sub-bin offset of its apex in [-0.5, 0.5].
func quadraticPeakOffset(alpha, beta, gamma float64) float64 {
	denom := alpha - 2*beta + gamma
	if denom == 0 {
		return 0
	}
	d := 0.5 * (alpha - gamma) / denom
	if d > 0.5 {
		d = 0.5
	}
	if d < -0.5 {
		d = -0.5
	}
	return d
}
