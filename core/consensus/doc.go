// Package consensus refines a draft sequence against many reads'
// event streams. It never imports app or cli glue; keep it
// domain-only.
//
// The Engine owns one job's reads and anchored columns. RunSplice
// walks the columns left to right, rebuilding each segment from
// splice and mutation candidates scored by the k-mer HMM in
// sqcons-core/hmm.
package consensus
