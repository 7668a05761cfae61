// core/consensus/score.go
package consensus

import (
	"fmt"
	"math"
	"sort"

	"github.com/exascience/pargo/parallel"

	"sqcons-core/hmm"
)

const (
	cullRate                = 5
	cullMinScore            = -30.0
	cullMinImprovedFraction = 0.2
)

type indexedPathScore struct {
	score     float64
	pathIndex int
}

// scorePaths scores every candidate against every read state and
// sorts the candidates by cumulative score, best first. Scores
// accumulate relative to candidate 0 (the current base); badly
// scoring candidates are culled every cullRate reads.
func (e *Engine) scorePaths(paths []PathCons, readStates []hmm.ReadState) []PathCons {
	first := paths[0].Path

	// Deduplicate and reset aggregates.
	seen := make(map[string]struct{}, len(paths))
	dedup := paths[:0]
	for _, p := range paths {
		if _, dup := seen[p.Path]; dup {
			continue
		}
		seen[p.Path] = struct{}{}
		p.Score = 0
		p.SumRank = 0
		p.NumImproved = 0
		p.NumScored = 0
		dedup = append(dedup, p)
	}
	paths = dedup

	for ri := range readStates {
		rs := &readStates[ri]
		params := rs.Read.Params[rs.Strand]

		if math.Abs(params.FitQuality) > e.cfg.MinFit {
			continue
		}

		// The one hot parallel region: each worker writes a disjoint
		// cell of the pre-sized result slice, so no locks are needed.
		result := make([]indexedPathScore, len(paths))
		parallel.Range(0, len(paths), e.cfg.Threads, func(low, high int) {
			for pi := low; pi < high; pi++ {
				result[pi] = indexedPathScore{
					score:     e.scoreFn(paths[pi].Path, rs),
					pathIndex: pi,
				}
			}
		})

		firstPathScore := result[0].score

		sort.SliceStable(result, func(a, b int) bool {
			return result[a].score > result[b].score
		})

		for rank, r := range result {
			p := &paths[r.pathIndex]
			p.Score += r.score - firstPathScore
			p.SumRank += rank
			if r.score > firstPathScore {
				p.NumImproved++
			}
			p.NumScored++
		}

		if ri > 0 && ri%cullRate == 0 {
			retained := paths[:0]
			for pi := range paths {
				// A candidate survives if it is the base, still
				// scores acceptably, or improves enough reads.
				f := float64(paths[pi].NumImproved) / float64(paths[pi].NumScored)
				if pi == 0 || paths[pi].Score > cullMinScore || f >= cullMinImprovedFraction {
					retained = append(retained, paths[pi])
				}
			}
			paths = retained
		}
	}

	sort.SliceStable(paths, func(a, b int) bool {
		return paths[a].Score > paths[b].Score
	})

	if e.cfg.Trace != nil {
		for pi := range paths {
			initial := ' '
			if paths[pi].Path == first {
				initial = 'I'
			}
			fmt.Fprintf(e.cfg.Trace, "%d\t%s\t%.1f\t%d %c %s\n",
				pi, paths[pi].Path, paths[pi].Score, paths[pi].SumRank, initial, paths[pi].MutDesc)
		}
	}

	return paths
}
