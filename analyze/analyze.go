// Package analyze extracts the per-frame evidence the transcription model
// consumes from raw mono audio: a fundamental pitch contour with voicing
// flags, detected onset frames and a global tempo estimate. All functions
// share the same frame/hop grid so their outputs line up 1:1.
package analyze

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

const (
	a4Freq = 440.0
	a4Note = 69
)

// MidiToHz converts a (possibly fractional) MIDI note number to frequency.
func MidiToHz(note float64) float64 {
	const ln2 = 0.69314718055994530942
	exponent := (note - a4Note) / 12.0
	return a4Freq * float64(approx.FastExp(float32(exponent*ln2)))
}

// HzToMidi converts a frequency to a fractional MIDI note number.
func HzToMidi(hz float64) float64 {
	return a4Note + 12.0*math.Log2(hz/a4Freq)
}
