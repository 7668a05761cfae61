// core/consensus/klcs.go
package consensus

import (
	"sqcons-core/kmer"
	"sqcons-core/matrix"
)

// kmerMatch is one aligned pair in a k-mer LCS: a and b share the
// k-mer starting at a[I] and b[J].
type kmerMatch struct {
	I int
	J int
}

// kmerLCS returns the longest common subsequence of k-mers between a
// and b as a list of match pairs in left-to-right order.
func kmerLCS(a, b string) []kmerMatch {
	nKmersA := len(a) - kmer.K + 1
	nKmersB := len(b) - kmer.K + 1

	m := matrix.New[uint32](nKmersA+1, nKmersB+1)

	for row := 1; row <= nKmersA; row++ {
		for col := 1; col <= nKmersB; col++ {
			var score uint32
			if a[row-1:row-1+kmer.K] == b[col-1:col-1+kmer.K] {
				score = m.At(row-1, col-1) + 1
			} else {
				score = max(m.At(row, col-1), m.At(row-1, col))
			}
			m.Set(row, col, score)
		}
	}

	var result []kmerMatch
	row, col := nKmersA, nKmersB
	for row > 0 && col > 0 {
		if a[row-1:row-1+kmer.K] == b[col-1:col-1+kmer.K] {
			result = append(result, kmerMatch{I: row - 1, J: col - 1})
			row--
			col--
		} else if m.At(row-1, col) > m.At(row, col-1) {
			row--
		} else {
			col--
		}
	}

	// The backtrack collected matches end to start.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// generateAltPaths appends, for every divergent region between base
// and each alternate, a candidate with the base's region spliced out
// and the alternate's region spliced in. Regions are delimited by
// consecutive non-adjacent k-mer LCS matches.
func generateAltPaths(paths []PathCons, base string, alts []string) []PathCons {
	for _, alt := range alts {
		result := kmerLCS(base, alt)

		matchIdx := 0
		for matchIdx < len(result) {
			lastIdx := len(result) - 1

			// Advance to the next point of divergence.
			for matchIdx != lastIdx &&
				result[matchIdx].I == result[matchIdx+1].I-1 &&
				result[matchIdx].J == result[matchIdx+1].J-1 {
				matchIdx++
			}
			if matchIdx == lastIdx {
				break
			}

			bl := result[matchIdx+1].I - result[matchIdx].I
			rl := result[matchIdx+1].J - result[matchIdx].J

			i := result[matchIdx].I
			j := result[matchIdx].J
			spliced := base[:i] + alt[j:j+rl] + base[i+bl:]
			paths = append(paths, newPath(spliced))

			matchIdx++
		}
	}
	return paths
}
