// core/consensus/score_test.go
package consensus

import (
	"fmt"
	"testing"

	"sqcons-core/hmm"
	"sqcons-core/squiggle"
)

// fakeReadStates builds n minimal template-strand read states backed
// by one dummy read, for scorer-stub tests.
func fakeReadStates(n int) []hmm.ReadState {
	read := &squiggle.Read{}
	read.Params[squiggle.Template] = squiggle.DefaultParameters()
	read.Params[squiggle.Complement] = squiggle.DefaultParameters()

	states := make([]hmm.ReadState, n)
	for i := range states {
		states[i] = hmm.ReadState{
			Read:       read,
			EventStart: 0,
			EventStop:  9,
			Strand:     squiggle.Template,
			Stride:     1,
		}
	}
	return states
}

// Uniformly bad candidates fall below the score threshold at the
// first cull round and disappear; the base always survives.
func TestCullingRemovesBadPaths(t *testing.T) {
	e := New(Config{})
	base := "AAAAACCCCCGGGGG"
	e.scoreFn = func(seq string, s *hmm.ReadState) float64 {
		if seq == base {
			return -5
		}
		return -15 // 10 worse than the base on every read
	}

	paths := []PathCons{newPath(base)}
	for i := 0; i < 19; i++ {
		paths = append(paths, newPath(fmt.Sprintf("%s%c", base[:len(base)-1], "ACGT"[i%4])))
	}

	out := e.scorePaths(paths, fakeReadStates(25))

	if out[0].Path != base {
		t.Fatalf("winner = %s, want the base", out[0].Path)
	}
	// 19 candidates collapse to 3 distinct suffix variants (the 'G'
	// variant equals the base); all are culled after read 5.
	if len(out) != 1 {
		t.Fatalf("%d paths survive, want 1", len(out))
	}
	if out[0].Score != 0 {
		t.Errorf("base score = %v, want 0 (zero contribution to itself)", out[0].Score)
	}
	if out[0].NumScored != 25 {
		t.Errorf("base scored on %d reads, want 25", out[0].NumScored)
	}
}

// A candidate that keeps improving enough reads survives culling even
// with a poor cumulative score.
func TestCullingKeepsImprovers(t *testing.T) {
	e := New(Config{})
	base := "AAAAACCCCCGGGGG"
	alt := base[:7] + "T" + base[8:]

	call := 0
	e.scoreFn = func(seq string, s *hmm.ReadState) float64 {
		if seq != alt {
			return -10
		}
		// Better than the base on every third read, much worse
		// otherwise.
		call++
		if call%3 == 0 {
			return -8
		}
		return -60
	}

	paths := []PathCons{newPath(base), newPath(alt)}
	out := e.scorePaths(paths, fakeReadStates(25))

	found := false
	for _, p := range out {
		if p.Path == alt {
			found = true
		}
	}
	if !found {
		t.Error("improving candidate was culled")
	}
}

func TestScorePathsDeduplicates(t *testing.T) {
	e := New(Config{})
	e.scoreFn = func(seq string, s *hmm.ReadState) float64 { return -1 }

	paths := []PathCons{newPath("AAAAACCCCC"), newPath("AAAAACCCCC"), newPath("AAAAAGGGGG")}
	out := e.scorePaths(paths, fakeReadStates(1))

	if len(out) != 2 {
		t.Fatalf("%d paths after dedup, want 2", len(out))
	}
}

// With MinFit left at its default, even a strand with huge
// |fit quality| is scored.
func TestFitGateDefaultsOpen(t *testing.T) {
	e := New(Config{})
	scored := 0
	e.scoreFn = func(seq string, s *hmm.ReadState) float64 {
		scored++
		return -1
	}

	states := fakeReadStates(1)
	states[0].Read.Params[squiggle.Template].FitQuality = 1e12

	e.scorePaths([]PathCons{newPath("AAAAACCCCC")}, states)
	if scored == 0 {
		t.Error("strand was gated despite the always-pass default")
	}
}
