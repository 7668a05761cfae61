// core/hmm/transitions.go
package hmm

import (
	"fmt"
	"math"

	"sqcons-core/kmer"
	"sqcons-core/matrix"
)

const (
	// MaxJump bounds how many k-mers a single transition can advance.
	MaxJump = 5

	// MaxMerge bounds how many consecutive events one k-mer can own in
	// the skip-merge scorer.
	MaxMerge = 10
)

// numStates returns the HMM state count for a sequence: one state per
// k-mer plus a start and a terminal state.
func numStates(seq string) int {
	return len(seq) - kmer.K + 1 + 2
}

// fillTransitions builds the sequence-conditional state-transition
// matrix in log space. Unreachable transitions stay -Inf.
func fillTransitions(tm matrix.Dense[float64], seq string, s *ReadState) {
	pm := s.model()
	params := s.params()

	nStates := numStates(seq)
	terminal := nStates - 1
	if tm.Rows() != nStates || tm.Cols() != nStates {
		panic(fmt.Sprintf("hmm: transition matrix %dx%d, want %dx%d", tm.Rows(), tm.Cols(), nStates, nStates))
	}

	tm.Fill(math.Inf(-1))

	// The start state feeds the first k-mer only.
	tm.Set(0, 1, 0)

	for si := 1; si < nStates-1; si++ {
		ki := si - 1
		sum := 0.0

		lastValid := si + MaxJump
		if lastValid >= terminal {
			lastValid = terminal - 1
		}

		for sj := si; sj <= lastValid; sj++ {
			kj := sj - 1

			var p float64
			if ki == kj {
				p = params.SelfTransition
			} else {
				rankI := s.Rank(seq, ki)
				rankJ := s.Rank(seq, kj)

				// Skip lookups work in the trained parameter frame,
				// where shift is applied before scale.
				levelI := (pm.States[rankI].LevelMean + pm.Shift) * pm.Scale
				levelJ := (pm.States[rankJ].LevelMean + pm.Shift) * pm.Scale

				pSkip := params.SkipProbability(levelI, levelJ)
				p = (1 - sum) * (1 - pSkip)
				if p < 0 || p > 1 {
					panic(fmt.Sprintf("hmm: transition %d->%d out of range: %v", ki, kj, p))
				}
			}

			sum += p
			tm.Set(si, sj, math.Log(p))
		}
	}

	// Only the last k-mer reaches the terminal state.
	tm.Set(nStates-2, nStates-1, 0)
}
