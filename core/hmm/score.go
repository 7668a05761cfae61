// core/hmm/score.go
package hmm

import (
	"math"

	"sqcons-core/matrix"
)

// Policy selects how a forward pass terminates.
type Policy int

const (
	// Global terminates from the last event row only.
	Global Policy = iota

	// SemiKmer takes the best termination score over all event rows,
	// allowing the alignment to finish early.
	SemiKmer
)

// ScorerKind names one of the interchangeable sequence scorers. The
// kind is fixed at engine construction; the DP loops themselves stay
// monomorphic.
type ScorerKind int

const (
	KindForward ScorerKind = iota
	KindForwardSemiKmer
	KindSkipMerge
	KindEmissionOnly
)

// ScoreFunc is the shared scorer contract: the total log-likelihood
// of one read strand's events given a candidate sequence.
type ScoreFunc func(seq string, s *ReadState) float64

// Scorer returns the ScoreFunc for a kind.
func Scorer(kind ScorerKind) ScoreFunc {
	switch kind {
	case KindForwardSemiKmer:
		return func(seq string, s *ReadState) float64 { return ScoreForward(seq, s, SemiKmer) }
	case KindSkipMerge:
		return ScoreSkipMerge
	case KindEmissionOnly:
		return ScoreEmissionDP
	default:
		return func(seq string, s *ReadState) float64 { return ScoreForward(seq, s, Global) }
	}
}

// ScoreForward runs the full forward algorithm and returns the
// termination score under the given policy.
func ScoreForward(seq string, s *ReadState, policy Policy) float64 {
	nStates := numStates(seq)

	tm := matrix.New[float64](nStates, nStates)
	fillTransitions(tm, seq, s)

	nRows := s.NumEvents() + 1
	fm := matrix.New[float64](nRows, nStates)
	initForward(fm)
	score := fillForward(fm, tm, seq, s, s.EventStart)

	if policy == SemiKmer {
		best := math.Inf(-1)
		for row := 1; row < nRows; row++ {
			if v := forwardTerminate(fm, tm, row); v > best {
				best = v
			}
		}
		score = best
	}

	return score
}
