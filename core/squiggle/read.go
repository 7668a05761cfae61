// core/squiggle/read.go
package squiggle

import (
	"fmt"

	"sqcons-core/kmer"
)

// Strand selects one of the two event streams of a read.
type Strand uint8

const (
	Template   Strand = 0
	Complement Strand = 1
	NumStrands        = 2
)

// PoreState holds the Gaussian emission parameters for one k-mer.
type PoreState struct {
	LevelMean float64
	LevelStdv float64
	SDMean    float64
	SDStdv    float64
}

// PoreModel is the per-strand signal model. Immutable after load.
type PoreModel struct {
	Scale float64
	Shift float64
	Drift float64
	Var   float64

	// States has exactly kmer.NumKmers entries, indexed by rank.
	States []PoreState
}

// Validate checks the state table size required by the engine.
func (pm *PoreModel) Validate() error {
	if len(pm.States) != kmer.NumKmers {
		return fmt.Errorf("squiggle: pore model has %d states, want %d", len(pm.States), kmer.NumKmers)
	}
	return nil
}

// EventSequence is one strand's measured events. The slices are
// borrowed from the caller and never copied or written. Time has one
// entry more than Level/Stdv: Time[n] is the end of event n-1.
type EventSequence struct {
	Level []float64
	Stdv  []float64
	Time  []float64
}

// Len returns the number of events.
func (e *EventSequence) Len() int { return len(e.Level) }

// Read is one sequenced molecule: a pore model, an event stream and a
// set of learned HMM parameters for each strand.
type Read struct {
	ID     uint32
	Model  [NumStrands]PoreModel
	Events [NumStrands]EventSequence
	Params [NumStrands]Parameters
}

// Duration returns the measured duration of one event.
func (r *Read) Duration(eventIdx int, strand Strand) float64 {
	t := r.Events[strand].Time
	return t[eventIdx+1] - t[eventIdx]
}

// Level returns the drift-corrected current level of one event.
func (r *Read) Level(eventIdx int, strand Strand) float64 {
	ev := &r.Events[strand]
	elapsed := ev.Time[eventIdx] - ev.Time[0]
	return ev.Level[eventIdx] - elapsed*r.Model[strand].Drift
}
