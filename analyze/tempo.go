package analyze

const (
	// DefaultTempo is returned when the onset envelope carries no usable
	// periodicity (silence, a single note, a flat pad).
	DefaultTempo = 120.0

	minTempo = 30.0
	maxTempo = 300.0
)

// EstimateTempo estimates beats per minute from an onset strength envelope
// (as produced by OnsetStrength) by autocorrelating it over the lag range
// corresponding to 30-300 bpm and picking the strongest lag.
func EstimateTempo(env []float64, sampleRate, hopLength int) float64 {
	if len(env) < 2 || sampleRate <= 0 || hopLength <= 0 {
		return DefaultTempo
	}
	frameRate := float64(sampleRate) / float64(hopLength)

	// Mean-subtract so sustained energy doesn't correlate at every lag.
	var mean float64
	for _, v := range env {
		mean += v
	}
	mean /= float64(len(env))
	centered := make([]float64, len(env))
	for i, v := range env {
		centered[i] = v - mean
	}

	minLag := int(frameRate * 60 / maxTempo)
	if minLag < 1 {
		minLag = 1
	}
	maxLag := int(frameRate * 60 / minTempo)
	if maxLag >= len(centered) {
		maxLag = len(centered) - 1
	}
	if maxLag < minLag {
		return DefaultTempo
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := lag; i < len(centered); i++ {
			corr += centered[i] * centered[i-lag]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}
	if bestLag == 0 || bestCorr <= 0 {
		return DefaultTempo
	}
	return 60 * frameRate / float64(bestLag)
}
