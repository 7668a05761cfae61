// internal/app/app.go
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"

	"sqcons-core/consensus"
	"sqcons-core/hmm"
	"sqcons-core/kmer"
	"sqcons-core/synth"
	"sqcons/internal/cli"
	"sqcons/internal/cmdutil"
	"sqcons/internal/version"
)

// Run executes the synthetic consensus harness: fabricate a true
// sequence, synthesize noisy reads from it, perturb a draft, anchor
// columns, run the engine and report how well the consensus recovers
// the truth.
func Run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sqcons", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts cli.Options
	cli.Register(fs, &opts)

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.Usage()
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.Version {
		fmt.Fprintf(stdout, "sqcons version %s\n", version.Version)
		return 0
	}
	if opts.Reads < 1 || opts.Segments < 1 || opts.SegLength < kmer.K {
		fmt.Fprintln(stderr, "sqcons: need --reads >= 1, --segments >= 1 and --seg-length >= 5")
		return 2
	}
	scorer, err := scorerKind(opts.Scorer)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Segments < 2 {
		cmdutil.Warnf(stderr, opts.Quiet, "fewer than 2 segments: nothing to refine")
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	pm := synth.NewModel()

	truth := synth.RandomSequence(rng, opts.Segments*opts.SegLength+kmer.K)
	draft := synth.MutateSubs(rng, truth, opts.SubRate)

	cfg := consensus.Config{Threads: opts.Threads, Scorer: scorer}
	if opts.Verbose {
		cfg.Verbose = stdout
	}
	eng := consensus.New(cfg)

	anchorMaps := make([][]int, opts.Reads)
	for ri := 0; ri < opts.Reads; ri++ {
		read, anchors := synth.NewRead(truth, pm, synth.Options{Noise: opts.Noise, Rng: rng})
		if err := eng.AddRead(read); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		anchorMaps[ri] = anchors
	}

	// One anchored column per segment boundary. Adjacent column bases
	// overlap by one k-mer.
	for col := 0; col <= opts.Segments; col++ {
		ki := col * opts.SegLength

		eng.StartAnchoredColumn()
		for ri := 0; ri < opts.Reads; ri++ {
			eng.AddReadAnchor(anchorMaps[ri][ki], false)
			eng.AddReadAnchor(-1, false)
		}
		if col < opts.Segments {
			eng.AddBaseSequence(draft[ki : (col+1)*opts.SegLength+kmer.K])
		} else {
			eng.AddBaseSequence(draft[ki:])
		}
		eng.EndAnchoredColumn()
	}

	result := eng.RunSplice()

	// The engine refines segments up to the second-to-last column; the
	// comparable stretch of truth and draft ends there.
	covered := (opts.Segments-1)*opts.SegLength + kmer.K
	if covered > len(truth) || opts.Segments < 2 {
		covered = len(truth)
	}
	truthRegion := truth[:covered]
	draftRegion := draft[:covered]

	fmt.Fprintf(stdout, "truth length      %d\n", len(truthRegion))
	fmt.Fprintf(stdout, "draft identity    %.4f\n", identity(draftRegion, truthRegion))
	fmt.Fprintf(stdout, "consensus length  %d\n", len(result))
	fmt.Fprintf(stdout, "consensus identity %.4f\n", identity(result, truthRegion))

	if opts.Train {
		eng.Train()
	}
	return 0
}

func scorerKind(name string) (hmm.ScorerKind, error) {
	switch name {
	case "forward":
		return hmm.KindForward, nil
	case "semi":
		return hmm.KindForwardSemiKmer, nil
	case "merge":
		return hmm.KindSkipMerge, nil
	case "emission":
		return hmm.KindEmissionOnly, nil
	}
	return 0, fmt.Errorf("sqcons: unknown scorer %q", name)
}

// identity is 1 - editDistance/maxLen, a crude recovery metric for
// the report.
func identity(a, b string) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return 1
	}
	return 1 - float64(editDistance(a, b))/float64(n)
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := prev[j-1] + cost
			if v := prev[j] + 1; v < d {
				d = v
			}
			if v := curr[j-1] + 1; v < d {
				d = v
			}
			curr[j] = d
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
