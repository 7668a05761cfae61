// core/consensus/segment.go
package consensus

import (
	"fmt"
	"math"

	"sqcons-core/hmm"
	"sqcons-core/kmer"
	"sqcons-core/squiggle"
)

const (
	// outlierThreshold drops read states whose per-event
	// log-likelihood magnitude is at least this large.
	outlierThreshold = 3.5

	refinementRounds = 6
	mutationRounds   = 10
)

// joinAtKmer joins two segment sequences that overlap in exactly one
// k-mer: a's last K bases must equal b's first K.
func joinAtKmer(a, b string) string {
	if a[len(a)-kmer.K:] != b[:kmer.K] {
		panic(fmt.Sprintf("consensus: join mismatch %q / %q", a[len(a)-kmer.K:], b[:kmer.K]))
	}
	return a + b[kmer.K:]
}

// readStatesForColumns builds the read states spanning two anchored
// columns. Strands missing an event at either anchor are dropped.
func (e *Engine) readStatesForColumns(start, end *AnchoredColumn) []hmm.ReadState {
	if len(start.Anchors) != len(end.Anchors) {
		panic(fmt.Sprintf("consensus: anchor count mismatch %d != %d", len(start.Anchors), len(end.Anchors)))
	}

	var readStates []hmm.ReadState
	for rsi := range start.Anchors {
		startRA := start.Anchors[rsi]
		endRA := end.Anchors[rsi]

		if startRA.EventIdx == -1 || endRA.EventIdx == -1 {
			continue
		}

		readIdx := rsi / 2
		if readIdx >= len(e.reads) {
			panic(fmt.Sprintf("consensus: anchor %d has no read", rsi))
		}
		if startRA.RC != endRA.RC {
			panic(fmt.Sprintf("consensus: rc disagreement on anchor %d", rsi))
		}

		rs := hmm.ReadState{
			Read:        e.reads[readIdx],
			AnchorIndex: rsi,
			EventStart:  startRA.EventIdx,
			EventStop:   endRA.EventIdx,
			Strand:      squiggle.Strand(rsi % 2),
			Stride:      1,
			RC:          startRA.RC,
		}
		if rs.EventStart >= rs.EventStop {
			rs.Stride = -1
		}

		readStates = append(readStates, rs)
	}
	return readStates
}

// filterOutliers drops read states whose events the current sequence
// explains too poorly to be trusted.
func (e *Engine) filterOutliers(readStates []hmm.ReadState, sequence string) []hmm.ReadState {
	out := readStates[:0]
	for ri := range readStates {
		rs := &readStates[ri]

		curr := e.scoreFn(sequence, rs)
		nEvents := float64(rs.NumEvents())
		lpPerEvent := curr / nEvents

		if e.cfg.Trace != nil {
			fmt.Fprintf(e.cfg.Trace, "OUTLIER_FILTER %d %.2f %.2f %.2f\n", ri, curr, nEvents, lpPerEvent)
		}
		if math.Abs(lpPerEvent) < outlierThreshold {
			out = append(out, *rs)
		}
	}
	return out
}

// runMutation greedily applies single-base edits until the sequence
// is a fixed point. The runner-up of the last round is returned for
// diagnostics.
func (e *Engine) runMutation(base string, readStates []hmm.ReadState) (string, string) {
	secondBest := ""
	for iteration := 0; iteration < mutationRounds; iteration++ {
		paths := generateMutations(base)
		paths = e.scorePaths(paths, readStates)

		if len(paths) > 1 {
			secondBest = paths[1].Path
		} else {
			secondBest = ""
		}

		if paths[0].Path == base {
			break
		}
		base = paths[0].Path
	}
	return base, secondBest
}

// runSpliceSegment refines the consensus over one anchored-column
// triple (start, middle, end) and re-anchors the middle column's
// events on the refined sequence.
func (e *Engine) runSpliceSegment(segmentID int) {
	startColumn := &e.columns[segmentID]
	middleColumn := &e.columns[segmentID+1]
	endColumn := &e.columns[segmentID+2]

	smBase := startColumn.BaseSequence
	meBase := middleColumn.BaseSequence

	original := joinAtKmer(smBase, meBase)
	base := original

	// Alternates from the start column get the middle base appended;
	// alternates from the middle column get the start base prepended.
	var alts []string
	for _, alt := range startColumn.AltSequences {
		if len(meBase) >= kmer.K {
			alts = append(alts, alt+meBase[kmer.K:])
		}
	}
	for _, alt := range middleColumn.AltSequences {
		if len(alt) >= kmer.K {
			alts = append(alts, smBase[:len(smBase)-kmer.K]+alt)
		}
	}

	readStates := e.readStatesForColumns(startColumn, endColumn)
	readStates = e.filterOutliers(readStates, base)

	// No usable reads: leave the columns untouched.
	if len(readStates) == 0 {
		fmt.Fprintf(e.verbose(), "ORIGINAL[%d] %s\n", segmentID, original)
		fmt.Fprintf(e.verbose(), "RESULT[%d]   %s\n", segmentID, original)
		return
	}

	for round := 0; round < refinementRounds; round++ {
		paths := []PathCons{newPath(base)}
		paths = generateAltPaths(paths, base, alts)
		paths = e.scorePaths(paths, readStates)

		if paths[0].Path == base {
			break
		}
		base = paths[0].Path
	}

	var secondBest string
	base, secondBest = e.runMutation(base, readStates)

	if e.cfg.Trace != nil && secondBest != "" {
		for ri := range readStates {
			hmm.DebugDecode(e.cfg.Trace, "best", uint32(segmentID), uint32(ri), base, &readStates[ri])
			hmm.DebugDecode(e.cfg.Trace, "second", uint32(segmentID), uint32(ri), secondBest, &readStates[ri])
		}
	}

	fmt.Fprintf(e.verbose(), "ORIGINAL[%d] %s\n", segmentID, original)
	fmt.Fprintf(e.verbose(), "RESULT[%d]   %s\n", segmentID, base)

	// Cut the refined sequence at its midpoint k-mer; the two halves
	// overlap by K bases so the join invariant holds.
	if len(base) < kmer.K {
		panic(fmt.Sprintf("consensus: refined sequence %q shorter than a k-mer", base))
	}
	midpointKmer := (len(base) - kmer.K + 1) / 2

	smFixed := base[:midpointKmer+kmer.K]
	meFixed := base[midpointKmer:]

	startColumn.BaseSequence = smFixed
	middleColumn.BaseSequence = meFixed

	// Re-anchor the middle column: for each read state, the decoded
	// event closest to the midpoint k-mer (ties to the later event).
	for ri := range readStates {
		decodes := hmm.PosteriorDecode(base, &readStates[ri])

		minKDist := len(base)
		eventIdx := 0
		for _, d := range decodes {
			dist := d.KmerIdx - midpointKmer
			if dist < 0 {
				dist = -dist
			}
			if dist <= minKDist {
				minKDist = dist
				eventIdx = d.EventIdx
			}
		}

		middleColumn.Anchors[readStates[ri].AnchorIndex].EventIdx = eventIdx
	}
}
