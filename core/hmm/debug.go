// core/hmm/debug.go
package hmm

import (
	"fmt"
	"io"
	"math"
	"sync"
)

// DebugDecode writes one DEBUG row per decoded step and a SUMMARY row
// for the whole alignment. The rows are a human-readable diagnostic,
// not a machine interface.
func DebugDecode(w io.Writer, name string, seqID, readID uint32, seq string, s *ReadState) {
	pstates := PosteriorDecode(seq, s)

	pm := s.model()
	strandChar := 't'
	if s.Strand != 0 {
		strandChar = 'c'
	}

	var nMatches, nMerges, nSkips, nMergeSkips int
	var prevOp byte
	for pi, ps := range pstates {
		level := s.Read.Level(ps.EventIdx, s.Strand)
		sd := s.Read.Events[s.Strand].Stdv[ps.EventIdx]
		duration := s.Read.Duration(ps.EventIdx, s.Strand)

		rank := s.Rank(seq, ps.KmerIdx)
		modelM := (pm.States[rank].LevelMean + pm.Shift) * pm.Scale
		modelS := pm.States[rank].LevelStdv * pm.Scale
		normLevel := (level - modelM) / modelS

		modelSDMean := pm.States[rank].SDMean
		modelSDStdv := pm.States[rank].SDStdv

		switch ps.State {
		case 'M':
			nMatches++
		case 'E':
			nMerges++
		case 'K':
			nSkips++
			if prevOp == 'E' {
				nMergeSkips++
			}
		}

		lpDiff := ps.LFM
		if pi > 0 {
			lpDiff = ps.LFM - pstates[pi-1].LFM
		}

		fmt.Fprintf(w, "DEBUG\t%s\t%d\t%t\t%c\t", name, readID, s.RC, strandChar)
		fmt.Fprintf(w, "%c\t%d\t%d\t", ps.State, ps.EventIdx, ps.KmerIdx)
		fmt.Fprintf(w, "%s\t%.3f\t", ps.Kmer(seq), duration)
		fmt.Fprintf(w, "%.1f\t%.1f\t%.1f\t", level, modelM, normLevel)
		fmt.Fprintf(w, "%.1f\t%.1f\t%.1f\t", sd, modelSDMean, (sd-modelSDMean)/modelSDStdv)
		fmt.Fprintf(w, "%.2f\t%.2f\t%.2f\n", math.Exp(ps.LPosterior), ps.LFM, lpDiff)
		prevOp = ps.State
	}

	ev := &s.Read.Events[s.Strand]
	totalDuration := math.Abs(ev.Time[s.EventStart] - ev.Time[s.EventStop])
	numEvents := s.NumEvents()
	finalLP := pstates[len(pstates)-1].LFM
	meanLP := finalLP / float64(numEvents)

	summaryHeaderOnce.Do(func() {
		fmt.Fprint(w, "SUMMARY\tseq_name\tseq_id\tread_id\tis_rc\tstrand\t")
		fmt.Fprint(w, "lp\tmean_lp\tnum_events\t")
		fmt.Fprint(w, "n_matches\tn_merges\tn_skips\tn_mergeskips\ttotal_duration\n")
	})

	fmt.Fprintf(w, "SUMMARY\t%s\t%d\t%d\t%t\t%c\t", name, seqID, readID, s.RC, strandChar)
	fmt.Fprintf(w, "%.2f\t%.2f\t%d\t", finalLP, meanLP, numEvents)
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.2f\n", nMatches, nMerges, nSkips, nMergeSkips, totalDuration)
}

var summaryHeaderOnce sync.Once
