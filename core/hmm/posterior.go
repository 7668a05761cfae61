// core/hmm/posterior.go
package hmm

import (
	"fmt"
	"math"

	"sqcons-core/kmer"
	"sqcons-core/matrix"
)

// PosteriorState is one step of a posterior decode: the event, the
// k-mer it is assigned to, and the classified alignment operation.
type PosteriorState struct {
	EventIdx int
	KmerIdx  int

	LPosterior  float64
	LFM         float64
	LTransition float64

	// State is 'M' (advance one k-mer), 'E' (stay) or 'K' (jump >= 2).
	State byte
}

// PosteriorDecode assigns every event between the state's anchors to
// a k-mer of seq by walking the forward*backward product from the
// last row back to the first.
func PosteriorDecode(seq string, s *ReadState) []PosteriorState {
	nStates := numStates(seq)

	tm := matrix.New[float64](nStates, nStates)
	fillTransitions(tm, seq, s)

	eStart := s.EventStart
	nRows := s.NumEvents() + 1

	fm := matrix.New[float64](nRows, nStates)
	initForward(fm)
	lf := fillForward(fm, tm, seq, s, eStart)

	bm := matrix.New[float64](nRows, nStates)
	initBackward(bm, tm)
	fillBackward(bm, tm, seq, s, eStart)

	output := make([]PosteriorState, 0, nRows-1)

	row := nRows - 1
	col := nStates - 1
	for row > 0 {
		maxPosterior := math.Inf(-1)
		maxS := 0

		// Only states within jump range of the previous pick are
		// reachable.
		first := 1
		if col >= MaxJump {
			first = col - MaxJump
		}
		for si := first; si <= col; si++ {
			lp := fm.At(row, si) + bm.At(row, si) - lf
			if lp > maxPosterior {
				maxPosterior = lp
				maxS = si
			}
		}

		output = append(output, PosteriorState{
			EventIdx:   eStart + (row-1)*s.Stride,
			KmerIdx:    maxS - 1,
			LPosterior: maxPosterior,
			LFM:        fm.At(row, maxS),
		})

		row--
		col = maxS
	}

	// The walk built the path back to front.
	for i, j := 0, len(output)-1; i < j; i, j = i+1, j-1 {
		output[i], output[j] = output[j], output[i]
	}

	// The first step is always a match; classify the rest by how far
	// the k-mer index advanced.
	output[0].State = 'M'
	output[0].LTransition = tm.At(0, output[0].KmerIdx+1)

	prevEi := output[0].EventIdx
	prevKi := output[0].KmerIdx
	for pi := 1; pi < len(output); pi++ {
		ei := output[pi].EventIdx
		ki := output[pi].KmerIdx

		output[pi].LTransition = tm.At(prevKi+1, ki+1)
		if d := ei - prevEi; d != 1 && d != -1 {
			panic(fmt.Sprintf("hmm: decode event stride %d at step %d", d, pi))
		}

		switch {
		case ki == prevKi:
			output[pi].State = 'E'
		case ki-prevKi == 1:
			output[pi].State = 'M'
		default:
			if ki-prevKi <= 1 {
				panic(fmt.Sprintf("hmm: decode k-mer regression %d -> %d", prevKi, ki))
			}
			output[pi].State = 'K'
		}

		prevEi = ei
		prevKi = ki
	}

	return output
}

// Kmer returns the k-mer of seq this step is assigned to.
func (ps *PosteriorState) Kmer(seq string) string {
	return seq[ps.KmerIdx : ps.KmerIdx+kmer.K]
}
