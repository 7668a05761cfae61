// core/consensus/engine_test.go
package consensus

import (
	"math/rand"
	"testing"

	"sqcons-core/hmm"
	"sqcons-core/kmer"
	"sqcons-core/synth"
)

// buildSyntheticEngine ingests reads with exact (noise-free) events
// for truth, anchored every segLength k-mers over a draft.
func buildSyntheticEngine(t *testing.T, truth, draft string, segLength, nReads int) *Engine {
	t.Helper()

	eng := New(Config{})
	pm := synth.NewModel()

	anchorMaps := make([][]int, nReads)
	for ri := 0; ri < nReads; ri++ {
		read, anchors := synth.NewRead(truth, pm, synth.Options{})
		if err := eng.AddRead(read); err != nil {
			t.Fatalf("AddRead: %v", err)
		}
		anchorMaps[ri] = anchors
	}

	nSegments := (len(truth) - kmer.K) / segLength
	for col := 0; col <= nSegments; col++ {
		ki := col * segLength
		eng.StartAnchoredColumn()
		for ri := 0; ri < nReads; ri++ {
			eng.AddReadAnchor(anchorMaps[ri][ki], false)
			eng.AddReadAnchor(-1, false)
		}
		if col < nSegments {
			eng.AddBaseSequence(draft[ki : (col+1)*segLength+kmer.K])
		} else {
			eng.AddBaseSequence(draft[ki:])
		}
		eng.EndAnchoredColumn()
	}
	return eng
}

// A draft carrying one interior substitution is corrected back to the
// truth from exact events.
func TestRunSpliceCorrectsSubstitution(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	truth := synth.RandomSequence(rng, 45)

	const mutAt = 10
	b := byte('A')
	if truth[mutAt] == 'A' {
		b = 'C'
	}
	draft := truth[:mutAt] + string(b) + truth[mutAt+1:]

	eng := buildSyntheticEngine(t, truth, draft, 20, 2)
	got := eng.RunSplice()

	want := truth[:25]
	if got != want {
		t.Errorf("consensus = %s, want %s", got, want)
	}
	if eng.ConsensusResult() != got {
		t.Error("ConsensusResult disagrees with RunSplice")
	}
}

// Adjacent columns keep their one-k-mer overlap after refinement.
func TestRunSplicePreservesJoinInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	truth := synth.RandomSequence(rng, 65)
	draft := synth.MutateSubs(rng, truth, 0.03)

	eng := buildSyntheticEngine(t, truth, draft, 20, 2)
	eng.RunSplice()

	for i := 0; i+1 < len(eng.columns); i++ {
		a := eng.columns[i].BaseSequence
		c := eng.columns[i+1].BaseSequence
		if a[len(a)-kmer.K:] != c[:kmer.K] {
			t.Fatalf("columns %d/%d lost the k-mer join: %q / %q", i, i+1, a[len(a)-kmer.K:], c[:kmer.K])
		}
	}
}

// The same inputs produce the same consensus.
func TestRunSpliceDeterministic(t *testing.T) {
	var results [2]string
	for trial := range results {
		rng := rand.New(rand.NewSource(13))
		truth := synth.RandomSequence(rng, 45)
		draft := synth.MutateSubs(rng, truth, 0.05)

		eng := buildSyntheticEngine(t, truth, draft, 20, 3)
		results[trial] = eng.RunSplice()
	}
	if results[0] != results[1] {
		t.Errorf("consensus differs across runs: %s vs %s", results[0], results[1])
	}
}

// A segment with no events at its anchors is left alone.
func TestEmptyReadStatesIsNoOp(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	truth := synth.RandomSequence(rng, 45)

	eng := New(Config{})
	pm := synth.NewModel()
	read, _ := synth.NewRead(truth, pm, synth.Options{})
	if err := eng.AddRead(read); err != nil {
		t.Fatalf("AddRead: %v", err)
	}

	for col := 0; col < 3; col++ {
		eng.StartAnchoredColumn()
		eng.AddReadAnchor(-1, false)
		eng.AddReadAnchor(-1, false)
		eng.AddBaseSequence(truth[col*20 : min(col*20+25, len(truth))])
		eng.EndAnchoredColumn()
	}
	before := make([]AnchoredColumn, len(eng.columns))
	copy(before, eng.columns)

	got := eng.RunSplice()

	for i := range before {
		if eng.columns[i].BaseSequence != before[i].BaseSequence {
			t.Errorf("column %d base changed", i)
		}
		for ai, a := range eng.columns[i].Anchors {
			if a.EventIdx != -1 {
				t.Errorf("column %d anchor %d rewritten to %d", i, ai, a.EventIdx)
			}
		}
	}
	if got != before[0].BaseSequence {
		t.Errorf("consensus = %s, want the untouched draft segment", got)
	}
}

// Per-event log-likelihood at -4.0 is an outlier, -3.4 is not.
func TestOutlierFilterThreshold(t *testing.T) {
	e := New(Config{})
	e.scoreFn = func(seq string, s *hmm.ReadState) float64 {
		if s.AnchorIndex == 0 {
			return -40
		}
		return -34
	}

	states := fakeReadStates(2)
	states[0].AnchorIndex = 0
	states[1].AnchorIndex = 2

	out := e.filterOutliers(states, "AAAAACCCCC")
	if len(out) != 1 || out[0].AnchorIndex != 2 {
		t.Fatalf("kept %d states, want only the -3.4 strand", len(out))
	}
}

// Training accumulates observations and re-estimates the parameters.
func TestTrainAccumulatesAndReestimates(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	truth := synth.RandomSequence(rng, 45)

	eng := buildSyntheticEngine(t, truth, truth, 20, 1)
	eng.Train()

	// Exact one-event-per-k-mer decodes are all matches, so the
	// re-estimated merge probability collapses to zero.
	p := eng.reads[0].Params[0]
	if p.SelfTransition != 0 {
		t.Errorf("SelfTransition = %v after training, want 0", p.SelfTransition)
	}
	if len(p.Training.Transitions) != 0 {
		t.Error("training accumulator not cleared after Train")
	}
}

func TestResetClearsState(t *testing.T) {
	rng := rand.New(rand.NewSource(16))
	truth := synth.RandomSequence(rng, 45)

	eng := buildSyntheticEngine(t, truth, truth, 20, 1)
	eng.RunSplice()
	eng.Reset()

	if eng.NumReads() != 0 || len(eng.columns) != 0 || eng.ConsensusResult() != "" {
		t.Error("Reset left engine state behind")
	}
}
