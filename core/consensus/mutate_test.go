// core/consensus/mutate_test.go
package consensus

import (
	"strings"
	"testing"

	"sqcons-core/kmer"
)

func TestGenerateMutationsShape(t *testing.T) {
	seq := "ACGTACGTACGTACG" // 15 bases, 5 interior positions
	muts := generateMutations(seq)

	interior := len(seq) - 2*kmer.K
	want := 1 + interior*(3+1+4)
	if len(muts) != want {
		t.Fatalf("%d mutations, want %d", len(muts), want)
	}

	if muts[0].Path != seq || muts[0].MutDesc != "" {
		t.Errorf("first candidate is not the unmodified sequence: %+v", muts[0])
	}

	for _, m := range muts[1:] {
		switch {
		case strings.HasPrefix(m.MutDesc, "sub-"):
			if len(m.Path) != len(seq) {
				t.Errorf("%s changed length", m.MutDesc)
			}
		case strings.HasPrefix(m.MutDesc, "del-"):
			if len(m.Path) != len(seq)-1 {
				t.Errorf("%s length %d", m.MutDesc, len(m.Path))
			}
		case strings.HasPrefix(m.MutDesc, "ins-"):
			if len(m.Path) != len(seq)+1 {
				t.Errorf("%s length %d", m.MutDesc, len(m.Path))
			}
		default:
			t.Errorf("unlabeled mutation %q", m.MutDesc)
		}

		// The first and last k-mer never change.
		if m.Path[:kmer.K] != seq[:kmer.K] {
			t.Errorf("%s touched the leading k-mer", m.MutDesc)
		}
		if m.Path[len(m.Path)-kmer.K:] != seq[len(seq)-kmer.K:] {
			t.Errorf("%s touched the trailing k-mer", m.MutDesc)
		}
	}
}

func TestExtendPathsEnumerates(t *testing.T) {
	paths := []PathCons{newPath("ACGTACGTACGT")}
	out := extendPaths(paths, 2)

	if want := 4 + 16; len(out) != want {
		t.Fatalf("%d extensions, want %d", len(out), want)
	}

	seen := make(map[string]struct{}, len(out))
	for _, p := range out {
		seen[p.Path] = struct{}{}
		// Insertions land just before the final k-mer.
		if !strings.HasPrefix(p.Path, "ACGTACG") || !strings.HasSuffix(p.Path, "TACGT") {
			t.Errorf("extension %s does not preserve the flanks", p.Path)
		}
	}
	if len(seen) != len(out) {
		t.Errorf("extensions not unique: %d distinct of %d", len(seen), len(out))
	}

	// A known single-base extension must be present.
	want := "ACGTACG" + "C" + "TACGT"
	if _, ok := seen[want]; !ok {
		t.Errorf("missing extension %s", want)
	}
}
