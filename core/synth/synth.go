// core/synth/synth.go

// Package synth fabricates pore models, event streams and perturbed
// drafts for tests and the demonstration harness. Events are derived
// from a sequence the same way the pore emits them: one measurement
// per k-mer window, optionally repeated, skipped or jittered.
package synth

import (
	"math/rand"

	"sqcons-core/kmer"
	"sqcons-core/squiggle"
)

// DefaultEventDuration is the synthetic per-event dwell time.
const DefaultEventDuration = 0.005

// NewModel returns a deterministic pore model with unit scale and
// variance and no drift or shift. K-mer level means are spread over
// [100, 105) pA by a multiplicative hash: every k-mer gets a distinct
// level, and the spread is narrow enough that a read still scores
// within the outlier window against a draft carrying a stray error.
func NewModel() squiggle.PoreModel {
	pm := squiggle.PoreModel{
		Scale:  1,
		Shift:  0,
		Drift:  0,
		Var:    1,
		States: make([]squiggle.PoreState, kmer.NumKmers),
	}
	for r := range pm.States {
		h := uint32(r) * 2654435761
		frac := float64(h%kmer.NumKmers) / float64(kmer.NumKmers)
		pm.States[r] = squiggle.PoreState{
			LevelMean: 100 + 5*frac,
			LevelStdv: 1.0,
			SDMean:    1.0,
			SDStdv:    0.2,
		}
	}
	return pm
}

// Options shape the synthesized event stream.
type Options struct {
	// Repeats[ki] is the number of events the k-mer at ki emits.
	// A zero entry skips the k-mer. Nil means one event per k-mer.
	Repeats []int

	// Noise scales Gaussian jitter (in units of the k-mer's level
	// stdv) added to each level. Requires Rng when non-zero.
	Noise float64
	Rng   *rand.Rand

	// EventDuration overrides DefaultEventDuration when positive.
	EventDuration float64
}

// Events synthesizes an event stream for seq under pm. The second
// return value maps each k-mer index to the index of its first event,
// or -1 for skipped k-mers.
func Events(seq string, pm *squiggle.PoreModel, opts Options) (squiggle.EventSequence, []int) {
	nKmers := len(seq) - kmer.K + 1
	dt := opts.EventDuration
	if dt <= 0 {
		dt = DefaultEventDuration
	}

	var level, stdv, times []float64
	anchors := make([]int, nKmers)
	t := 0.0
	times = append(times, t)

	for ki := 0; ki < nKmers; ki++ {
		n := 1
		if opts.Repeats != nil {
			n = opts.Repeats[ki]
		}
		if n == 0 {
			anchors[ki] = -1
			continue
		}
		anchors[ki] = len(level)

		rank := kmer.Rank(seq[ki:])
		st := pm.States[rank]
		for i := 0; i < n; i++ {
			l := st.LevelMean*pm.Scale + pm.Shift
			if opts.Noise > 0 {
				l += opts.Rng.NormFloat64() * opts.Noise * st.LevelStdv
			}
			level = append(level, l)
			stdv = append(stdv, st.SDMean)
			t += dt
			times = append(times, t)
		}
	}

	return squiggle.EventSequence{Level: level, Stdv: stdv, Time: times}, anchors
}

// NewRead wraps a synthesized template-strand event stream in a Read.
// The complement strand carries the same model and no events.
func NewRead(seq string, pm squiggle.PoreModel, opts Options) (*squiggle.Read, []int) {
	events, anchors := Events(seq, &pm, opts)
	r := &squiggle.Read{}
	r.Model[squiggle.Template] = pm
	r.Model[squiggle.Complement] = pm
	r.Events[squiggle.Template] = events
	return r, anchors
}

// RandomSequence returns a uniform random ACGT string of length n.
func RandomSequence(rng *rand.Rand, n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = "ACGT"[rng.Intn(4)]
	}
	return string(out)
}

// MutateSubs substitutes bases at the given rate, leaving length
// unchanged so anchor coordinates stay valid.
func MutateSubs(rng *rand.Rand, seq string, rate float64) string {
	out := []byte(seq)
	for i := range out {
		if rng.Float64() < rate {
			b := "ACGT"[rng.Intn(4)]
			for b == out[i] {
				b = "ACGT"[rng.Intn(4)]
			}
			out[i] = b
		}
	}
	return string(out)
}
