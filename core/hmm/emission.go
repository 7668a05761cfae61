// core/hmm/emission.go
package hmm

import "math"

// durationRate is the exponential prior on the total duration of the
// events a single k-mer owns.
const durationRate = 27.777

var logInvSqrt2Pi = math.Log(0.3989422804014327)

func logNormalPdf(x, m, s float64) float64 {
	a := (x - m) / s
	return logInvSqrt2Pi - math.Log(s) - 0.5*a*a
}

// logProbMatch scores emitting one event from the k-mer with the
// given rank.
func logProbMatch(s *ReadState, rank uint32, eventIdx int) float64 {
	pm := s.model()
	level := s.Read.Level(eventIdx, s.Strand)
	m := pm.States[rank].LevelMean*pm.Scale + pm.Shift
	sd := pm.States[rank].LevelStdv * pm.Var
	return logNormalPdf(level, m, sd)
}

// logProbRangeMatch scores one k-mer owning the whole event range
// [eventStart, eventEnd]: each event's log density weighted by its
// duration, normalized by the total duration, plus the duration
// prior.
func logProbRangeMatch(s *ReadState, rank uint32, eventStart, eventEnd int) float64 {
	if s.Stride == -1 {
		eventStart, eventEnd = eventEnd, eventStart
	}

	pm := s.model()
	m := pm.States[rank].LevelMean*pm.Scale + pm.Shift
	sd := pm.States[rank].LevelStdv * pm.Var

	duration := 0.0
	lp := 0.0
	for ei := eventStart; ei <= eventEnd; ei++ {
		d := s.Read.Duration(ei, s.Strand)
		level := s.Read.Level(ei, s.Strand)
		duration += d
		lp += d * logNormalPdf(level, m, sd)
	}
	lp /= duration

	ld := math.Log(durationRate) - durationRate*math.Abs(duration)
	return lp + ld
}
