// internal/cli/options.go
package cli

import "flag"

// Options holds the CLI fields of the sqcons demonstration harness.
type Options struct {
	// Synthetic job shape
	Reads     int
	Segments  int
	SegLength int
	SubRate   float64
	Noise     float64
	Seed      int64

	// Engine
	Threads int
	Scorer  string // forward|semi|merge|emission
	Train   bool

	// Misc
	Verbose bool
	Quiet   bool
	Version bool
}

// Register wires the flags onto fs with their defaults.
func Register(fs *flag.FlagSet, o *Options) {
	fs.IntVar(&o.Reads, "reads", 10, "number of synthetic reads")
	fs.IntVar(&o.Segments, "segments", 4, "number of draft segments")
	fs.IntVar(&o.SegLength, "seg-length", 40, "bases per draft segment")
	fs.Float64Var(&o.SubRate, "sub-rate", 0.02, "substitution rate used to perturb the draft")
	fs.Float64Var(&o.Noise, "noise", 0.5, "event level noise in units of the model stdv")
	fs.Int64Var(&o.Seed, "seed", 1, "random seed")

	fs.IntVar(&o.Threads, "threads", 1, "parallel candidate-scoring width")
	fs.StringVar(&o.Scorer, "scorer", "forward", "sequence scorer: forward|semi|merge|emission")
	fs.BoolVar(&o.Train, "train", false, "re-estimate HMM parameters after the consensus pass")

	fs.BoolVar(&o.Verbose, "verbose", false, "print per-segment progress lines")
	fs.BoolVar(&o.Quiet, "quiet", false, "suppress warnings")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")
}
