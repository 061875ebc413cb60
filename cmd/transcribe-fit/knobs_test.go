package main

import (
	"testing"

	"github.com/tiagoft/audio-to-midi/transcribe"
)

func TestFromNormalizedMapsBounds(t *testing.T) {
	defs := knobDefs()

	lo := fromNormalized(make([]float64, len(defs)), defs)
	hi := fromNormalized([]float64{1, 1, 1, 1, 1, 1}, defs)
	for i, d := range defs {
		if lo.Vals[i] != d.Min {
			t.Fatalf("%s: lower bound %g, want %g", d.Name, lo.Vals[i], d.Min)
		}
		if hi.Vals[i] != d.Max {
			t.Fatalf("%s: upper bound %g, want %g", d.Name, hi.Vals[i], d.Max)
		}
	}

	// Out-of-range positions clamp instead of extrapolating.
	wild := fromNormalized([]float64{-3, 7, 0.5, 0.5, 0.5, 0.5}, defs)
	if wild.Vals[0] != defs[0].Min || wild.Vals[1] != defs[1].Max {
		t.Fatalf("clamping failed: %v", wild.Vals)
	}
}

func TestApplyCandidateMapsKnobs(t *testing.T) {
	base := transcribe.NewDefaultParams()
	defs := knobDefs()
	c := candidate{Vals: []float64{0.88, 0.66, 0.91, 0.92, 0.93, 0.3}}

	p := applyCandidate(base, defs, c)
	if p.PStayNote != 0.88 || p.PStaySilence != 0.66 {
		t.Fatalf("stay probabilities not applied: %+v", p)
	}
	if p.PitchAcc != 0.91 || p.VoicedAcc != 0.92 || p.OnsetAcc != 0.93 || p.Spread != 0.3 {
		t.Fatalf("accuracies not applied: %+v", p)
	}
	if p.NoteMin != base.NoteMin || p.FrameLength != base.FrameLength {
		t.Fatalf("fixed fields changed: %+v", p)
	}
	if base.PStayNote == 0.88 {
		t.Fatal("base params mutated")
	}
}

func TestInitCandidateClampsToBounds(t *testing.T) {
	base := transcribe.NewDefaultParams()
	base.PStaySilence = 0.01 // below the knob floor
	defs := knobDefs()
	c := initCandidate(base, defs)
	if c.Vals[1] != defs[1].Min {
		t.Fatalf("p_stay_silence %g, want clamped to %g", c.Vals[1], defs[1].Min)
	}
	if len(c.Vals) != len(defs) {
		t.Fatalf("candidate has %d values for %d knobs", len(c.Vals), len(defs))
	}
}

func TestKnobMapRoundTrip(t *testing.T) {
	defs := knobDefs()
	c := initCandidate(transcribe.NewDefaultParams(), defs)
	m := knobMap(defs, c)
	if len(m) != len(defs) {
		t.Fatalf("map has %d entries, want %d", len(m), len(defs))
	}
	for i, d := range defs {
		if m[d.Name] != c.Vals[i] {
			t.Fatalf("%s: %g, want %g", d.Name, m[d.Name], c.Vals[i])
		}
	}
}
