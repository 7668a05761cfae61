// core/squiggle/params.go
package squiggle

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TransitionObservation records one decoded k-mer transition: the
// model levels of the two states and the decoded operation
// ('M' match, 'K' skip).
type TransitionObservation struct {
	LevelFrom float64
	LevelTo   float64
	Kind      byte
}

// TrainingData accumulates decode observations between calls to
// Parameters.Train.
type TrainingData struct {
	Transitions    []TransitionObservation
	MatchResiduals []float64

	NMatches int
	NMerges  int
	NSkips   int
}

const (
	skipBins     = 30
	skipBinWidth = 0.5
)

// Parameters are the learned per-strand HMM hyperparameters.
type Parameters struct {
	// SelfTransition is the probability of a k-mer emitting another
	// event (an 'E' step).
	SelfTransition float64

	// skipProb[i] is the probability that the k-mer transition whose
	// absolute model-level difference falls in bin i is skipped.
	skipProb [skipBins]float64

	// FitQuality gates how useful this strand is for scoring. Zero
	// until trained.
	FitQuality float64

	Training TrainingData
}

// skipPrior is a two-piece linear prior on the skip probability as a
// function of the level difference d: skips are common when adjacent
// k-mers look alike and rare when they are far apart.
func skipPrior(d float64) float64 {
	const (
		p0   = 0.487
		pMid = 0.048
		pEnd = 0.013
		mid  = 7.5
		end  = 15.0
	)
	switch {
	case d <= 0:
		return p0
	case d < mid:
		return p0 + (pMid-p0)*d/mid
	case d < end:
		return pMid + (pEnd-pMid)*(d-mid)/(end-mid)
	default:
		return pEnd
	}
}

// DefaultParameters returns untrained parameters with the prior skip
// table.
func DefaultParameters() Parameters {
	p := Parameters{SelfTransition: 0.09}
	for i := 0; i < skipBins; i++ {
		center := (float64(i) + 0.5) * skipBinWidth
		p.skipProb[i] = skipPrior(center)
	}
	return p
}

func skipBin(levelI, levelJ float64) int {
	d := math.Abs(levelI - levelJ)
	bin := int(d / skipBinWidth)
	if bin >= skipBins {
		bin = skipBins - 1
	}
	return bin
}

// SkipProbability returns the probability that the transition between
// two k-mers with the given model levels is skipped by the detector.
func (p *Parameters) SkipProbability(levelI, levelJ float64) float64 {
	return p.skipProb[skipBin(levelI, levelJ)]
}

// Train re-estimates SelfTransition and the skip table from the
// accumulated observations, then clears the accumulator. Summary
// rows are written to w when non-nil.
func (p *Parameters) Train(w io.Writer) {
	td := &p.Training

	total := td.NMatches + td.NMerges + td.NSkips
	if total > 0 {
		p.SelfTransition = float64(td.NMerges) / float64(total)
	}

	// Per-bin empirical skip fraction. Bins with no observations keep
	// their current value.
	var nSkip, nSeen [skipBins]int
	for _, to := range td.Transitions {
		bin := skipBin(to.LevelFrom, to.LevelTo)
		nSeen[bin]++
		if to.Kind == 'K' {
			nSkip[bin]++
		}
	}
	for i := 0; i < skipBins; i++ {
		if nSeen[i] > 0 {
			p.skipProb[i] = float64(nSkip[i]) / float64(nSeen[i])
		}
	}

	if len(td.MatchResiduals) > 0 {
		mean := stat.Mean(td.MatchResiduals, nil)
		stdv := stat.StdDev(td.MatchResiduals, nil)
		p.FitQuality = mean
		if w != nil {
			fmt.Fprintf(w, "TRAIN_SUMMARY\t%d\t%d\t%d\t%.4f\t%.4f\t%.4f\n",
				td.NMatches, td.NMerges, td.NSkips, p.SelfTransition, mean, stdv)
		}
	}

	td.Transitions = td.Transitions[:0]
	td.MatchResiduals = td.MatchResiduals[:0]
	td.NMatches, td.NMerges, td.NSkips = 0, 0, 0
}
