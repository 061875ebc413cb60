// Package analysis measures how closely a transcribed note list matches a
// reference note list. The fit tool minimizes the combined score.
package analysis

import (
	"math"
	"sort"
)

// Note is a single note positioned in beats.
type Note struct {
	Onset    float64 `json:"onset"`
	Duration float64 `json:"duration"`
	Pitch    int     `json:"pitch"`
}

// Metrics contains distance and similarity measurements between two note lists.
type Metrics struct {
	ReferenceNotes int `json:"reference_notes"`
	CandidateNotes int `json:"candidate_notes"`
	MatchedNotes   int `json:"matched_notes"`
	PitchMatches   int `json:"pitch_matches"`

	OnsetMAE    float64 `json:"onset_mae_beats"`
	DurationMAE float64 `json:"duration_mae_beats"`
	MissRate    float64 `json:"miss_rate"`
	ExtraRate   float64 `json:"extra_rate"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

// onsetWindow is the maximum onset distance in beats for two notes to be
// considered the same event.
const onsetWindow = 0.5

// Compare matches candidate notes against reference notes and returns
// objective distance metrics plus a combined score in [0,1], 0 being a
// perfect match.
func Compare(reference []Note, candidate []Note) Metrics {
	m := Metrics{
		ReferenceNotes: len(reference),
		CandidateNotes: len(candidate),
	}
	if len(reference) == 0 && len(candidate) == 0 {
		m.Similarity = 1.0
		return m
	}
	if len(reference) == 0 || len(candidate) == 0 {
		m.MissRate = rate(len(reference), len(reference))
		m.ExtraRate = rate(len(candidate), len(candidate))
		m.Score = 1.0
		return m
	}

	ref := sortedByOnset(reference)
	cand := sortedByOnset(candidate)

	matched := greedyMatch(ref, cand)

	var onsetErr, durationErr float64
	for _, pair := range matched {
		r, c := ref[pair[0]], cand[pair[1]]
		onsetErr += math.Abs(r.Onset - c.Onset)
		durationErr += math.Abs(r.Duration - c.Duration)
		if r.Pitch == c.Pitch {
			m.PitchMatches++
		}
	}
	m.MatchedNotes = len(matched)
	if m.MatchedNotes > 0 {
		m.OnsetMAE = onsetErr / float64(m.MatchedNotes)
		m.DurationMAE = durationErr / float64(m.MatchedNotes)
	}
	m.MissRate = rate(len(ref)-m.MatchedNotes, len(ref))
	m.ExtraRate = rate(len(cand)-m.MatchedNotes, len(cand))
	pitchErrRate := 0.0
	if m.MatchedNotes > 0 {
		pitchErrRate = rate(m.MatchedNotes-m.PitchMatches, m.MatchedNotes)
	}

	// Normalize sub-metrics and combine.
	onsetNorm := clamp01(m.OnsetMAE / onsetWindow)
	durationNorm := clamp01(m.DurationMAE / 2.0)
	m.Score = clamp01(0.35*m.MissRate + 0.20*m.ExtraRate + 0.25*pitchErrRate +
		0.15*onsetNorm + 0.05*durationNorm)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))
	return m
}

// greedyMatch pairs each reference note with the cheapest unmatched candidate
// inside the onset window. Returns index pairs into the sorted slices.
func greedyMatch(ref []Note, cand []Note) [][2]int {
	used := make([]bool, len(cand))
	var pairs [][2]int
	for i, r := range ref {
		bestJ := -1
		bestCost := math.Inf(1)
		for j, c := range cand {
			if used[j] {
				continue
			}
			d := c.Onset - r.Onset
			if d > onsetWindow {
				break // sorted, no later candidate can be closer
			}
			if d < -onsetWindow {
				continue
			}
			cost := math.Abs(d)
			if c.Pitch != r.Pitch {
				cost += onsetWindow // same-pitch candidates win ties
			}
			if cost < bestCost {
				bestCost = cost
				bestJ = j
			}
		}
		if bestJ >= 0 {
			used[bestJ] = true
			pairs = append(pairs, [2]int{i, bestJ})
		}
	}
	return pairs
}

func sortedByOnset(notes []Note) []Note {
	out := append([]Note(nil), notes...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Onset != out[j].Onset {
			return out[i].Onset < out[j].Onset
		}
		return out[i].Pitch < out[j].Pitch
	})
	return out
}

func rate(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
