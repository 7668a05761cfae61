// core/hmm/readstate.go
package hmm

import (
	"sqcons-core/kmer"
	"sqcons-core/squiggle"
)

// ReadState is the view of one read strand between two anchored
// events. It is the unit every scorer and decoder operates on.
type ReadState struct {
	Read        *squiggle.Read
	AnchorIndex int

	EventStart int
	EventStop  int
	Strand     squiggle.Strand

	// Stride is +1 when EventStop > EventStart, -1 otherwise.
	Stride int

	// RC is true when the strand runs reverse-complement to the
	// consensus.
	RC bool
}

// NumEvents returns the number of events between the two anchors,
// inclusive.
func (s *ReadState) NumEvents() int {
	if s.EventStop > s.EventStart {
		return s.EventStop - s.EventStart + 1
	}
	return s.EventStart - s.EventStop + 1
}

// Rank returns the model rank of the k-mer starting at ki, on the
// strand this state reads.
func (s *ReadState) Rank(seq string, ki int) uint32 {
	if s.RC {
		return kmer.RCRank(seq[ki:])
	}
	return kmer.Rank(seq[ki:])
}

// StrandIndex is a unique index for the strand this state represents.
func (s *ReadState) StrandIndex() uint32 {
	return s.Read.ID*squiggle.NumStrands + uint32(s.Strand)
}

func (s *ReadState) params() *squiggle.Parameters {
	return &s.Read.Params[s.Strand]
}

func (s *ReadState) model() *squiggle.PoreModel {
	return &s.Read.Model[s.Strand]
}
