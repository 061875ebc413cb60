package analyze

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// Spectrogram holds Hann-windowed magnitude spectra on the analysis grid.
// Mag[t][k] is the magnitude of bin k at frame t; frame t is centered on
// sample t*hop, with zero padding at the edges.
type Spectrogram struct {
	Mag        [][]float64
	NumBins    int
	FrameLen   int
	HopLen     int
	SampleRate int
}

// BinHz returns the width of one frequency bin in Hz.
func (s *Spectrogram) BinHz() float64 {
	return float64(s.SampleRate) / float64(s.FrameLen)
}

// NumFrames follows the hop grid convention len(samples)/hop + 1, so a
// signal and its pitch/onset analyses always agree on the frame count.
func NumFrames(numSamples, hopLength int) int {
	return numSamples/hopLength + 1
}

// ComputeSpectrogram runs a Hann-windowed STFT over the signal.
func ComputeSpectrogram(samples []float64, sampleRate, frameLength, hopLength int) (*Spectrogram, error) {
	if frameLength < 2 || hopLength < 1 {
		return nil, fmt.Errorf("invalid analysis window: frame=%d hop=%d", frameLength, hopLength)
	}
	plan, err := algofft.NewPlanReal64(frameLength)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}

	hann := make([]float64, frameLength)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(frameLength-1))
	}

	numFrames := NumFrames(len(samples), hopLength)
	numBins := frameLength/2 + 1
	spec := make([]complex128, numBins)
	buf := make([]float64, frameLength)

	sg := &Spectrogram{
		Mag:        make([][]float64, numFrames),
		NumBins:    numBins,
		FrameLen:   frameLength,
		HopLen:     hopLength,
		SampleRate: sampleRate,
	}

	for t := 0; t < numFrames; t++ {
		center := t * hopLength
		start := center - frameLength/2
		for i := 0; i < frameLength; i++ {
			idx := start + i
			if idx >= 0 && idx < len(samples) {
				buf[i] = samples[idx] * hann[i]
			} else {
				buf[i] = 0
			}
		}
		plan.Forward(spec, buf)
		mag := make([]float64, numBins)
		for k := 0; k < numBins; k++ {
			mag[k] = cmplx.Abs(spec[k])
		}
		sg.Mag[t] = mag
	}
	return sg, nil
}

// FrameRMS returns the root-mean-square level of each centered frame.
func FrameRMS(samples []float64, frameLength, hopLength int) []float64 {
	numFrames := NumFrames(len(samples), hopLength)
	out := make([]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		center := t * hopLength
		start := center - frameLength/2
		var sum float64
		count := 0
		for i := 0; i < frameLength; i++ {
			idx := start + i
			if idx >= 0 && idx < len(samples) {
				sum += samples[idx] * samples[idx]
				count++
			}
		}
		if count > 0 {
			out[t] = math.Sqrt(sum / float64(count))
		}
	}
	return out
}
