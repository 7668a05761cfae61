// core/consensus/mutate.go
package consensus

import (
	"fmt"
	"strings"

	"sqcons-core/kmer"
)

// generateMutations returns the unmodified sequence followed by every
// single-base edit of its interior: three substitutions, one deletion
// and four insertions per position. The first and last k-mer are left
// untouched so the anchor joins survive.
func generateMutations(sequence string) []PathCons {
	mutations := []PathCons{newPath(sequence)}

	for si := kmer.K; si < len(sequence)-kmer.K; si++ {

		for _, b := range []byte("ACGT") {
			if sequence[si] == b {
				continue
			}
			pc := newPath(sequence[:si] + string(b) + sequence[si+1:])
			pc.MutDesc = fmt.Sprintf("sub-%d-%c", si, b)
			mutations = append(mutations, pc)
		}

		{
			pc := newPath(sequence[:si] + sequence[si+1:])
			pc.MutDesc = fmt.Sprintf("del-%d", si)
			mutations = append(mutations, pc)
		}

		for _, b := range []byte("ACGT") {
			pc := newPath(sequence[:si] + string(b) + sequence[si:])
			pc.MutDesc = fmt.Sprintf("ins-%d-%c", si, b)
			mutations = append(mutations, pc)
		}
	}

	return mutations
}

// extendPaths replaces each path with every possible insertion of a
// 1..maxk base string just before its final k-mer.
func extendPaths(paths []PathCons, maxk int) []PathCons {
	var newPaths []PathCons

	for k := 1; k <= maxk; k++ {
		first := strings.Repeat("A", k)
		for pi := range paths {
			ext := []byte(first)
			for {
				cur := paths[pi].Path
				at := len(cur) - kmer.K
				newPaths = append(newPaths, newPath(cur[:at]+string(ext)+cur[at:]))
				kmer.Increment(ext)
				if string(ext) == first {
					break
				}
			}
		}
	}

	return newPaths
}
