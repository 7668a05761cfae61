// core/squiggle/params_test.go
package squiggle

import (
	"strings"
	"testing"
)

func TestDefaultSkipProbabilities(t *testing.T) {
	p := DefaultParameters()

	for d := 0.0; d < 20; d += 0.25 {
		got := p.SkipProbability(0, d)
		if got <= 0 || got >= 1 {
			t.Fatalf("SkipProbability(0, %v) = %v, outside (0,1)", d, got)
		}
	}

	// Similar k-mers are skipped more often than distant ones.
	near := p.SkipProbability(100, 100.2)
	far := p.SkipProbability(100, 112)
	if near <= far {
		t.Errorf("near skip %v <= far skip %v", near, far)
	}
	// Differences beyond the table share the last bin.
	if a, b := p.SkipProbability(0, 40), p.SkipProbability(0, 80); a != b {
		t.Errorf("tail bins differ: %v != %v", a, b)
	}
}

func TestTrainReestimates(t *testing.T) {
	p := DefaultParameters()
	td := &p.Training

	// 6 matches, 2 merges, 2 skips -> self transition 0.2.
	td.NMatches, td.NMerges, td.NSkips = 6, 2, 2

	// One bin gets 1 skip out of 4 observations.
	for i := 0; i < 3; i++ {
		td.Transitions = append(td.Transitions, TransitionObservation{LevelFrom: 100, LevelTo: 103, Kind: 'M'})
	}
	td.Transitions = append(td.Transitions, TransitionObservation{LevelFrom: 100, LevelTo: 103, Kind: 'K'})

	td.MatchResiduals = []float64{-0.5, 0.5, 1.0, -1.0}

	var sb strings.Builder
	p.Train(&sb)

	if p.SelfTransition != 0.2 {
		t.Errorf("SelfTransition = %v, want 0.2", p.SelfTransition)
	}
	if got := p.SkipProbability(100, 103); got != 0.25 {
		t.Errorf("trained bin = %v, want 0.25", got)
	}
	if !strings.Contains(sb.String(), "TRAIN_SUMMARY") {
		t.Errorf("missing TRAIN_SUMMARY row: %q", sb.String())
	}

	// Accumulator is cleared for the next round.
	if len(td.Transitions) != 0 || len(td.MatchResiduals) != 0 || td.NMatches != 0 {
		t.Error("training accumulator not cleared")
	}

	// Untouched bins keep the prior.
	fresh := DefaultParameters()
	if got, want := p.SkipProbability(0, 14), fresh.SkipProbability(0, 14); got != want {
		t.Errorf("untouched bin changed: %v != %v", got, want)
	}
}
