package main

import (
	"github.com/tiagoft/audio-to-midi/analyze"
	"github.com/tiagoft/audio-to-midi/internal/wavio"
	"github.com/tiagoft/audio-to-midi/preset"
	"github.com/tiagoft/audio-to-midi/transcribe"
)

// contour holds everything the detector stages extract from a recording.
type contour struct {
	Evidence []transcribe.FrameEvidence
	Hz       []float64
	Voiced   []bool
	Onsets   []int
	Envelope []float64
	Tuning   float64
	TempoBPM float64
	HopTime  float64
}

// loadParams resolves the parameter set: defaults, optionally overlaid with a
// preset file. The second return value is the preset's tempo override.
func loadParams(presetPath string) (*transcribe.Params, float64, error) {
	if presetPath == "" {
		return transcribe.NewDefaultParams(), 0, nil
	}
	return preset.LoadJSON(presetPath)
}

// analyzeFile runs the full detector chain on a WAV file.
func analyzeFile(path string, p *transcribe.Params) (*contour, error) {
	r, err := p.Range()
	if err != nil {
		return nil, err
	}
	samples, err := wavio.ReadMonoAt(path, wavio.DefaultAnalysisRate)
	if err != nil {
		return nil, err
	}
	rate := wavio.DefaultAnalysisRate

	cfg := analyze.DefaultPitchConfig(rate,
		analyze.MidiToHz(float64(r.Min)), analyze.MidiToHz(float64(r.Max)))
	cfg.FrameLength = p.FrameLength
	cfg.HopLength = p.HopLength

	hz, voiced, err := analyze.EstimatePitch(samples, cfg)
	if err != nil {
		return nil, err
	}
	env, err := analyze.OnsetStrength(samples, rate, p.FrameLength, p.HopLength)
	if err != nil {
		return nil, err
	}
	onsets, err := analyze.DetectOnsets(samples, rate, p.FrameLength, p.HopLength)
	if err != nil {
		return nil, err
	}
	tuning := analyze.EstimateTuning(hz, voiced)

	return &contour{
		Evidence: analyze.ContourToEvidence(hz, voiced, onsets, tuning),
		Hz:       hz,
		Voiced:   voiced,
		Onsets:   onsets,
		Envelope: env,
		Tuning:   tuning,
		TempoBPM: analyze.EstimateTempo(env, rate, p.HopLength),
		HopTime:  float64(p.HopLength) / float64(rate),
	}, nil
}
