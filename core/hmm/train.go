// core/hmm/train.go
package hmm

import (
	"fmt"
	"io"

	"sqcons-core/kmer"
	"sqcons-core/squiggle"
)

// trainingEdgePad excludes decode steps near the anchors, where the
// alignment may be poor due to edge effects.
const trainingEdgePad = 5

// UpdateTraining decodes seq against the read state and appends
// transition and emission observations to the strand's training
// accumulator. Observation rows are written to w when non-nil.
func UpdateTraining(seq string, s *ReadState, w io.Writer) {
	pstates := PosteriorDecode(seq, s)

	pm := s.model()
	td := &s.params().Training
	nKmers := len(seq) - kmer.K + 1
	strandIdx := s.StrandIndex()

	for pi := 0; pi < len(pstates); pi++ {
		ei := pstates[pi].EventIdx
		ki := pstates[pi].KmerIdx
		op := pstates[pi].State

		if pi >= trainingEdgePad && pi < len(pstates)-trainingEdgePad {

			// Merge steps carry no k-mer transition. For skips, only
			// the first skipped transition is recorded.
			if op != 'E' {
				from := pstates[pi-1].KmerIdx
				to := ki
				if op == 'K' {
					to = from + 1
				}
				if from >= nKmers || to >= nKmers {
					panic(fmt.Sprintf("hmm: training transition %d -> %d outside %d k-mers", from, to, nKmers))
				}

				rank1 := s.Rank(seq, from)
				rank2 := s.Rank(seq, to)
				ke1 := (pm.States[rank1].LevelMean + pm.Shift) * pm.Scale
				ke2 := (pm.States[rank2].LevelMean + pm.Shift) * pm.Scale

				if w != nil {
					fmt.Fprintf(w, "TRAIN_SKIP\t%d\t%.3f\t%.3f\t%c\n", strandIdx, ke1, ke2, op)
				}
				td.Transitions = append(td.Transitions, squiggle.TransitionObservation{
					LevelFrom: ke1, LevelTo: ke2, Kind: op,
				})
			}

			level := s.Read.Level(ei, s.Strand)
			sd := s.Read.Events[s.Strand].Stdv[ei]
			duration := s.Read.Duration(ei, s.Strand)

			rank := s.Rank(seq, ki)
			modelM := (pm.States[rank].LevelMean + pm.Shift) * pm.Scale
			modelS := pm.States[rank].LevelStdv * pm.Scale
			normLevel := (level - modelM) / modelS

			if op == 'M' {
				td.MatchResiduals = append(td.MatchResiduals, normLevel)
			}

			if w != nil {
				fmt.Fprintf(w, "TRAIN_EMISSION\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%c\n",
					strandIdx, ei, level, sd, modelM, modelS, normLevel, duration, op)
			}
		}

		switch op {
		case 'M':
			td.NMatches++
		case 'E':
			td.NMerges++
		case 'K':
			td.NSkips++
		}
	}
}
