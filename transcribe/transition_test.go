package transcribe

import (
	"errors"
	"math"
	"testing"
)

func TestTransitionRowsAreStochastic(t *testing.T) {
	cases := []struct {
		name         string
		rng          NoteRange
		pStayNote    float64
		pStaySilence float64
	}{
		{"single note", NoteRange{45, 45}, 0.9, 0.7},
		{"octave", NoteRange{57, 69}, 0.9, 0.7},
		{"full default range", NoteRange{45, 76}, 0.5, 0.5},
		{"sticky", NoteRange{60, 72}, 0.99, 0.01},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := BuildTransitionMatrix(tc.rng, tc.pStayNote, tc.pStaySilence)
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			if len(m) != tc.rng.NumStates() {
				t.Fatalf("expected %d states, got %d", tc.rng.NumStates(), len(m))
			}
			for i, row := range m {
				var sum float64
				for _, p := range row {
					if p < 0 || p > 1 {
						t.Fatalf("row %d has entry %f outside [0,1]", i, p)
					}
					sum += p
				}
				if math.Abs(sum-1) > 1e-12 {
					t.Fatalf("row %d sums to %.15f, want 1", i, sum)
				}
			}
		})
	}
}

func TestOnsetRowsAdvanceDeterministically(t *testing.T) {
	rng := NoteRange{45, 57}
	m, err := BuildTransitionMatrix(rng, 0.9, 0.7)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for i := 0; i < rng.NumNotes(); i++ {
		onset := 2*i + 1
		sustain := 2*i + 2
		for j, p := range m[onset] {
			if j == sustain {
				if p != 1 {
					t.Fatalf("onset %d -> sustain %d is %f, want 1", onset, sustain, p)
				}
			} else if p != 0 {
				t.Fatalf("onset row %d has stray entry %f at column %d", onset, p, j)
			}
		}
	}
}

func TestSilenceOnlyReachesOnsets(t *testing.T) {
	rng := NoteRange{60, 64}
	m, err := BuildTransitionMatrix(rng, 0.9, 0.7)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for j, p := range m[0] {
		switch {
		case j == 0:
			if p != 0.7 {
				t.Fatalf("silence self-loop is %f, want 0.7", p)
			}
		case j%2 == 1:
			want := (1 - 0.7) / float64(rng.NumNotes())
			if math.Abs(p-want) > 1e-15 {
				t.Fatalf("silence -> onset %d is %f, want %f", j, p, want)
			}
		default:
			if p != 0 {
				t.Fatalf("silence -> sustain %d is %f, want 0", j, p)
			}
		}
	}
}

func TestSustainCanRetriggerItself(t *testing.T) {
	rng := NoteRange{45, 47}
	m, err := BuildTransitionMatrix(rng, 0.9, 0.7)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	// Sustain of note i must reach the onset of note i so repeated notes
	// can retrigger without an intervening silence frame.
	for i := 0; i < rng.NumNotes(); i++ {
		if m[2*i+2][2*i+1] <= 0 {
			t.Fatalf("sustain %d cannot re-attack its own onset", 2*i+2)
		}
	}
}

func TestBuildTransitionMatrixRejectsBadInput(t *testing.T) {
	if _, err := BuildTransitionMatrix(NoteRange{76, 45}, 0.9, 0.7); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	for _, probs := range [][2]float64{{0, 0.7}, {1, 0.7}, {0.9, 0}, {0.9, 1}, {-0.1, 0.7}, {0.9, 1.5}} {
		if _, err := BuildTransitionMatrix(NoteRange{45, 76}, probs[0], probs[1]); !errors.Is(err, ErrInvalidProbability) {
			t.Fatalf("p_stay_note=%g p_stay_silence=%g: expected ErrInvalidProbability, got %v",
				probs[0], probs[1], err)
		}
	}
}
