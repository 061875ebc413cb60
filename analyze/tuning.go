package analyze

import "math"

const tuningResolution = 0.01

// EstimateTuning returns the global tuning deviation of a pitch contour in
// fractions of a semitone, in [-0.5, 0.5). It histograms the fractional
// semitone offset of every voiced frame and picks the densest bin, so a
// recording tuned 30 cents sharp comes back as roughly +0.3.
//
// Returns 0 when the contour has no voiced frames.
func EstimateTuning(hz []float64, voiced []bool) float64 {
	numBins := int(math.Round(1 / tuningResolution))
	counts := make([]int, numBins)
	total := 0

	for t, f := range hz {
		if t >= len(voiced) || !voiced[t] || f <= 0 {
			continue
		}
		midi := HzToMidi(f)
		frac := midi - math.Round(midi) // in [-0.5, 0.5)
		bin := int(math.Floor((frac + 0.5) / tuningResolution))
		if bin < 0 {
			bin = 0
		}
		if bin >= numBins {
			bin = numBins - 1
		}
		counts[bin]++
		total++
	}
	if total == 0 {
		return 0
	}

	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return (float64(best)+0.5)*tuningResolution - 0.5
}
