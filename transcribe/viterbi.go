package transcribe

import (
	"fmt"
	"math"
)

type inEdge struct {
	from int
	logP float64
}

// Decode runs log-domain Viterbi over the given transition matrix,
// observation priors (priors[state][frame]) and initial state distribution,
// and returns the most likely state index per frame.
//
// Zero entries in the transition matrix are skipped rather than mapped to
// log(0); with the transcription topology most entries are zero, so each
// frame costs O(states * avgInDegree) instead of O(states^2).
func Decode(transition, priors [][]float64, initial []float64) ([]int, error) {
	numStates := len(transition)
	if numStates == 0 {
		return nil, fmt.Errorf("%w: empty transition matrix", ErrDimensionMismatch)
	}
	for i, row := range transition {
		if len(row) != numStates {
			return nil, fmt.Errorf("%w: transition row %d has %d columns, want %d",
				ErrDimensionMismatch, i, len(row), numStates)
		}
	}
	if len(priors) != numStates {
		return nil, fmt.Errorf("%w: %d prior rows for %d states",
			ErrDimensionMismatch, len(priors), numStates)
	}
	if len(initial) != numStates {
		return nil, fmt.Errorf("%w: initial distribution has %d entries for %d states",
			ErrDimensionMismatch, len(initial), numStates)
	}
	numFrames := len(priors[0])
	for s, row := range priors {
		if len(row) != numFrames {
			return nil, fmt.Errorf("%w: prior row %d has %d frames, want %d",
				ErrDimensionMismatch, s, len(row), numFrames)
		}
	}
	if numFrames == 0 {
		return nil, fmt.Errorf("%w: zero-length evidence", ErrEmptyInput)
	}

	// Incoming sparse edges, in log domain, per destination state.
	incoming := make([][]inEdge, numStates)
	for from, row := range transition {
		for to, p := range row {
			if p > 0 {
				incoming[to] = append(incoming[to], inEdge{from: from, logP: math.Log(p)})
			}
		}
	}

	logDelta := make([]float64, numStates)
	next := make([]float64, numStates)
	for s := 0; s < numStates; s++ {
		logDelta[s] = safeLog(initial[s]) + safeLog(priors[s][0])
	}

	psi := make([][]int, numFrames)
	for t := 1; t < numFrames; t++ {
		psi[t] = make([]int, numStates)
		for s := 0; s < numStates; s++ {
			best := math.Inf(-1)
			bestFrom := 0
			for _, e := range incoming[s] {
				if v := logDelta[e.from] + e.logP; v > best {
					best = v
					bestFrom = e.from
				}
			}
			next[s] = best + safeLog(priors[s][t])
			psi[t][s] = bestFrom
		}
		logDelta, next = next, logDelta
	}

	last := 0
	for s := 1; s < numStates; s++ {
		if logDelta[s] > logDelta[last] {
			last = s
		}
	}

	path := make([]int, numFrames)
	path[numFrames-1] = last
	for t := numFrames - 1; t > 0; t-- {
		last = psi[t][last]
		path[t-1] = last
	}
	return path, nil
}

// safeLog maps 0 to -Inf without tripping on negative rounding noise.
func safeLog(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	return math.Log(p)
}
