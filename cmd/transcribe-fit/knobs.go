package main

import (
	"github.com/tiagoft/audio-to-midi/transcribe"
)

type knobDef struct {
	Name string
	Min  float64
	Max  float64
}

type candidate struct {
	Vals []float64
}

// knobDefs lists the decoder parameters the optimizer is allowed to move.
// Note range and analysis window stay fixed during a fit run.
func knobDefs() []knobDef {
	return []knobDef{
		{Name: "p_stay_note", Min: 0.5, Max: 0.999},
		{Name: "p_stay_silence", Min: 0.1, Max: 0.999},
		{Name: "pitch_acc", Min: 0.5, Max: 0.999},
		{Name: "voiced_acc", Min: 0.5, Max: 0.999},
		{Name: "onset_acc", Min: 0.5, Max: 0.999},
		{Name: "spread", Min: 0.0, Max: 0.6},
	}
}

func initCandidate(base *transcribe.Params, defs []knobDef) candidate {
	vals := []float64{
		base.PStayNote,
		base.PStaySilence,
		base.PitchAcc,
		base.VoicedAcc,
		base.OnsetAcc,
		base.Spread,
	}
	for i := range vals {
		vals[i] = clamp(vals[i], defs[i].Min, defs[i].Max)
	}
	return candidate{Vals: vals}
}

func applyCandidate(base *transcribe.Params, defs []knobDef, c candidate) *transcribe.Params {
	p := *base
	for i, def := range defs {
		if i >= len(c.Vals) {
			break
		}
		v := clamp(c.Vals[i], def.Min, def.Max)
		switch def.Name {
		case "p_stay_note":
			p.PStayNote = v
		case "p_stay_silence":
			p.PStaySilence = v
		case "pitch_acc":
			p.PitchAcc = v
		case "voiced_acc":
			p.VoicedAcc = v
		case "onset_acc":
			p.OnsetAcc = v
		case "spread":
			p.Spread = v
		}
	}
	return &p
}

// fromNormalized maps a [0,1] position vector from the optimizer onto knob
// bounds.
func fromNormalized(pos []float64, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i := range defs {
		x := 0.0
		if i < len(pos) {
			x = clamp(pos[i], 0, 1)
		}
		vals[i] = defs[i].Min + x*(defs[i].Max-defs[i].Min)
	}
	return candidate{Vals: vals}
}

func knobMap(defs []knobDef, c candidate) map[string]float64 {
	out := make(map[string]float64, len(defs))
	for i, d := range defs {
		if i < len(c.Vals) {
			out[d.Name] = c.Vals[i]
		}
	}
	return out
}

func cloneCandidate(c candidate) candidate {
	vals := make([]float64, len(c.Vals))
	copy(vals, c.Vals)
	return candidate{Vals: vals}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
