// core/consensus/engine.go
package consensus

import (
	"fmt"
	"io"
	"math"

	"sqcons-core/hmm"
	"sqcons-core/kmer"
	"sqcons-core/squiggle"
)

// Config holds consensus engine parameters.
type Config struct {
	// Threads bounds the parallel fan-out when scoring candidates.
	Threads int

	// Scorer selects the sequence scorer; the zero value is the full
	// forward algorithm with global termination.
	Scorer hmm.ScorerKind

	// MinFit gates read strands by |fit quality|. Zero means +Inf:
	// every strand passes.
	MinFit float64

	// Verbose receives per-segment progress lines; nil discards.
	Verbose io.Writer

	// Trace receives per-decode and per-candidate diagnostics; nil
	// discards.
	Trace io.Writer
}

// ReadAnchor binds one read strand to an event index at an anchored
// column. EventIdx -1 means the strand has no event there.
type ReadAnchor struct {
	EventIdx int
	RC       bool
}

// AnchoredColumn is a named position along the draft consensus: the
// current draft segment starting there, zero or more alternates, and
// one anchor per read strand.
type AnchoredColumn struct {
	Anchors      []ReadAnchor
	BaseSequence string
	AltSequences []string
}

// Engine owns the reads and anchored columns of one consensus job.
// One instance per job; methods are not safe for concurrent use.
type Engine struct {
	cfg     Config
	scoreFn hmm.ScoreFunc

	reads     []*squiggle.Read
	columns   []AnchoredColumn
	consensus string
}

// New creates an engine. The scorer kind is fixed here; the inner DP
// loops are dispatched once at the scoring boundary.
func New(cfg Config) *Engine {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.MinFit == 0 {
		cfg.MinFit = math.Inf(1)
	}
	return &Engine{cfg: cfg, scoreFn: hmm.Scorer(cfg.Scorer)}
}

func (e *Engine) verbose() io.Writer {
	if e.cfg.Verbose != nil {
		return e.cfg.Verbose
	}
	return io.Discard
}

// AddRead appends a read. Both strand models must carry the full
// k-mer state table. The read's parameters are reset to the untrained
// defaults.
func (e *Engine) AddRead(r *squiggle.Read) error {
	for i := 0; i < squiggle.NumStrands; i++ {
		if err := r.Model[i].Validate(); err != nil {
			return err
		}
	}
	r.ID = uint32(len(e.reads))
	r.Params[squiggle.Template] = squiggle.DefaultParameters()
	r.Params[squiggle.Complement] = squiggle.DefaultParameters()
	e.reads = append(e.reads, r)
	return nil
}

// NumReads returns the number of ingested reads.
func (e *Engine) NumReads() int { return len(e.reads) }

// StartAnchoredColumn begins a new anchored column; anchors and
// sequences are appended to it until EndAnchoredColumn.
func (e *Engine) StartAnchoredColumn() {
	e.columns = append(e.columns, AnchoredColumn{})
}

func (e *Engine) currentColumn() *AnchoredColumn {
	if len(e.columns) == 0 {
		panic("consensus: no anchored column started")
	}
	return &e.columns[len(e.columns)-1]
}

// AddReadAnchor appends one strand's anchor to the current column.
func (e *Engine) AddReadAnchor(eventIdx int, rc bool) {
	c := e.currentColumn()
	c.Anchors = append(c.Anchors, ReadAnchor{EventIdx: eventIdx, RC: rc})
}

// AddBaseSequence sets the current column's draft segment.
func (e *Engine) AddBaseSequence(s string) {
	e.currentColumn().BaseSequence = s
}

// AddAltSequence appends a candidate alternate to the current column.
func (e *Engine) AddAltSequence(s string) {
	c := e.currentColumn()
	c.AltSequences = append(c.AltSequences, s)
}

// EndAnchoredColumn closes the current column, checking that every
// read contributed exactly two anchors.
func (e *Engine) EndAnchoredColumn() {
	c := e.currentColumn()
	if len(c.Anchors) != len(e.reads)*2 {
		panic(fmt.Sprintf("consensus: column has %d anchors for %d reads", len(c.Anchors), len(e.reads)))
	}
}

// RunSplice refines every segment left to right and accumulates the
// consensus. The result is also available from ConsensusResult.
func (e *Engine) RunSplice() string {
	var uncorrected, consensus string

	for segmentID := 0; segmentID+2 < len(e.columns); segmentID++ {

		// Track the original draft for reference.
		if uncorrected == "" {
			uncorrected = e.columns[segmentID].BaseSequence
		} else {
			uncorrected += e.columns[segmentID].BaseSequence[kmer.K:]
		}

		e.runSpliceSegment(segmentID)

		// runSpliceSegment rewrote this column's base; append it.
		base := e.columns[segmentID].BaseSequence
		if consensus == "" {
			consensus = base
		} else {
			consensus = joinAtKmer(consensus, base)
		}

		fmt.Fprintf(e.verbose(), "UNCORRECT[%d]: %s\n", segmentID, uncorrected)
		fmt.Fprintf(e.verbose(), "CONSENSUS[%d]: %s\n", segmentID, consensus)
	}

	e.consensus = consensus
	return consensus
}

// ConsensusResult returns the last consensus computed by RunSplice.
func (e *Engine) ConsensusResult() string { return e.consensus }

// TrainSegment decodes one segment's reads against its current draft
// and accumulates training observations.
func (e *Engine) TrainSegment(segmentID int) {
	if segmentID+2 >= len(e.columns) {
		panic(fmt.Sprintf("consensus: segment %d out of range", segmentID))
	}
	startColumn := &e.columns[segmentID]
	middleColumn := &e.columns[segmentID+1]
	endColumn := &e.columns[segmentID+2]

	segmentSequence := joinAtKmer(startColumn.BaseSequence, middleColumn.BaseSequence)

	readStates := e.readStatesForColumns(startColumn, endColumn)
	for ri := range readStates {
		hmm.UpdateTraining(segmentSequence, &readStates[ri], e.cfg.Trace)
	}
}

// Train accumulates observations from every segment and re-estimates
// each strand's parameters.
func (e *Engine) Train() {
	for segmentID := 0; segmentID+2 < len(e.columns); segmentID++ {
		fmt.Fprintf(e.verbose(), "Training segment %d\n", segmentID)
		e.TrainSegment(segmentID)
	}

	for _, r := range e.reads {
		r.Params[squiggle.Template].Train(e.cfg.Trace)
		r.Params[squiggle.Complement].Train(e.cfg.Trace)
	}
}

// Reset drops all reads, columns and the consensus, keeping the
// configuration.
func (e *Engine) Reset() {
	e.reads = nil
	e.columns = nil
	e.consensus = ""
}
