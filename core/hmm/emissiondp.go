// core/hmm/emissiondp.go
package hmm

import (
	"math"

	"sqcons-core/kmer"
	"sqcons-core/matrix"
)

// ScoreEmissionDP is a cheap emission-only baseline: a
// Needleman-Wunsch-style grid with moves up (+emission),
// diagonal (+emission) and left (free), no transition model.
func ScoreEmissionDP(seq string, s *ReadState) float64 {
	nKmers := len(seq) - kmer.K + 1
	nCols := nKmers + 1
	nRows := s.NumEvents() + 1

	m := matrix.New[float64](nRows, nCols)
	m.Fill(math.Inf(-1))
	m.Set(0, 0, 0)

	eStart := s.EventStart
	for row := 1; row < nRows; row++ {
		for col := 1; col < nCols; col++ {
			eventIdx := eStart + (row-1)*s.Stride
			rank := s.Rank(seq, col-1)
			lpE := logProbMatch(s, rank, eventIdx)

			up := lpE + m.At(row-1, col)
			diag := lpE + m.At(row-1, col-1)
			left := m.At(row, col-1)

			best := up
			if diag > best {
				best = diag
			}
			if left > best {
				best = left
			}
			m.Set(row, col, best)
		}
	}

	return m.At(nRows-1, nCols-1)
}
