// core/hmm/viterbi.go
package hmm

import (
	"math"

	"sqcons-core/matrix"
)

// fillViterbiSkipMerge maximizes over alignments where one k-mer may
// own up to MaxMerge consecutive events and a transition may jump up
// to MaxJump k-mers. Each cell considers every (start row, start col)
// a merged block could begin at.
func fillViterbiSkipMerge(m, tm matrix.Dense[float64], seq string, s *ReadState, eStart int) float64 {
	for row := 1; row < m.Rows(); row++ {
		for col := 1; col < m.Cols()-1; col++ {

			max := math.Inf(-1)

			firstRow := 1
			if row > MaxMerge {
				firstRow = row - MaxMerge + 1
			}
			firstCol := 0
			if col >= MaxJump {
				firstCol = col - MaxJump
			}

			for startRow := firstRow; startRow <= row; startRow++ {
				for startCol := firstCol; startCol < col; startCol++ {

					mPrev := m.At(startRow-1, startCol)

					startEvent := eStart + (startRow-1)*s.Stride
					endEvent := eStart + (row-1)*s.Stride
					rank := s.Rank(seq, col-1)
					lpRange := logProbRangeMatch(s, rank, startEvent, endEvent)

					tJump := tm.At(startCol, col)
					nMerges := row - startRow
					tMerge := float64(nMerges) * tm.At(col, col)

					if total := mPrev + lpRange + tJump + tMerge; total > max {
						max = total
					}
				}
			}
			m.Set(row, col, max)
		}
	}

	// Terminate on the best last-row cell.
	tcol := m.Cols() - 1
	lrow := m.Rows() - 1
	max := math.Inf(-1)
	for col := 0; col < m.Cols()-1; col++ {
		if total := tm.At(col, tcol) + m.At(lrow, col); total > max {
			max = total
		}
	}
	return max
}

// ScoreSkipMerge is the Viterbi skip-merge scorer.
func ScoreSkipMerge(seq string, s *ReadState) float64 {
	nStates := numStates(seq)

	tm := matrix.New[float64](nStates, nStates)
	fillTransitions(tm, seq, s)

	nRows := s.NumEvents() + 1
	fm := matrix.New[float64](nRows, nStates)
	initForward(fm)
	return fillViterbiSkipMerge(fm, tm, seq, s, s.EventStart)
}
