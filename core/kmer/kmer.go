// core/kmer/kmer.go
package kmer

// K is the pore k-mer length; every ranked window is exactly K bases.
const K = 5

// NumKmers is the number of distinct K-mers over {A,C,G,T}.
const NumKmers = 1 << (2 * K) // 1024

// baseRank maps A/C/G/T to 0/1/2/3. Anything else maps to 0; real
// inputs are filtered upstream.
var baseRank [256]byte

func init() {
	baseRank['C'] = 1
	baseRank['G'] = 2
	baseRank['T'] = 3
}

// Rank encodes the first K bytes of s as a base-4 integer with the
// leftmost base in the highest two bits.
func Rank(s string) uint32 {
	var rank uint32
	for i := 0; i < K; i++ {
		rank |= uint32(baseRank[s[i]]) << (2 * (K - i - 1))
	}
	return rank
}

// RCRank encodes the reverse complement of the first K bytes of s.
// RCRank(s) == Rank(RevComp(s)) for all K-mers.
func RCRank(s string) uint32 {
	var rank uint32
	for i := K - 1; i >= 0; i-- {
		rank |= uint32(3-baseRank[s[i]]) << (2 * i)
	}
	return rank
}

// Increment advances s to the next sequence in lexicographic order
// over ACGT, in place, wrapping at the end ("TTT" -> "AAA").
func Increment(s []byte) {
	carry := 1
	for i := len(s) - 1; i >= 0 && carry > 0; i-- {
		r := int(baseRank[s[i]]) + carry
		s[i] = "ACGT"[r%4]
		carry = r / 4
	}
}

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
}

// RevComp returns the reverse complement of s. Non-ACGT bytes come
// back as 'N'.
func RevComp(s string) string {
	n := len(s)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[s[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}
