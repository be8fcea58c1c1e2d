package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Report", "Report", 1.0},
		{"one shared bigram", "night", "nacht", 0.25},
		{"repeated bigrams are a multiset", "aaaa", "aa", 0.5},
		{"disjoint", "abc", "xyz", 0},
		{"case sensitive", "AB", "ab", 0},
		{"volume pair", "Vol1 - Knuth", "Vol2 - Knuth", 18.0 / 22.0},
		{"unicode runes", "éé", "éé", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity_Degenerate(t *testing.T) {
	for _, pair := range [][2]string{
		{"", ""},
		{"a", "a"},
		{"", "abc"},
		{"abc", "x"},
		{"é", "éé"},
	} {
		assert.Zero(t, Similarity(pair[0], pair[1]), "%q vs %q", pair[0], pair[1])
	}
}

func TestSimilarity_SelfAndSymmetry(t *testing.T) {
	names := []string{
		"ab", "Report", "Vol1 - Knuth", "Vol2 - Stevens",
		"The Art of Computer Programming, Vol. 1", "aaaa", "abab", "日本語のファイル",
	}

	for _, a := range names {
		assert.Equal(t, 1.0, Similarity(a, a), "self similarity of %q", a)
		for _, b := range names {
			s := Similarity(a, b)
			assert.Equal(t, s, Similarity(b, a), "symmetry of %q and %q", a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestScorer_MemoizationIsTransparent(t *testing.T) {
	idx := NewBigramIndex()
	scorer := NewScorer(idx)

	pairs := [][2]string{
		{"Vol1 - Knuth", "Vol2 - Knuth"},
		{"Vol1 - Knuth", "Vol1 - Stevens"},
		{"Vol1 - Knuth", "Vol2 - Knuth"},
		{"x", "Vol1 - Knuth"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), scorer.Similarity(p[0], p[1]))
	}

	// "x" is rejected before lookup, so three distinct strings were indexed
	require.Equal(t, 3, idx.Len())
	hits, misses := idx.Stats()
	assert.Equal(t, 3, misses)
	assert.Equal(t, 3, hits)
}

func TestScorer_NilIndex(t *testing.T) {
	scorer := NewScorer(nil)
	assert.Equal(t, 1.0, scorer.Similarity("Report", "Report"))
}

func TestBigramIndex_AddedAndPut(t *testing.T) {
	idx := NewBigramIndex()
	idx.Put("loaded", Bigrams{"lo": 1})

	// Put entries are served from the index and never reported as new
	assert.Equal(t, Bigrams{"lo": 1}, idx.Get("loaded"))
	idx.Get("fresh")

	added := idx.Added()
	require.Len(t, added, 1)
	assert.Equal(t, Bigrams{"fr": 1, "re": 1, "es": 1, "sh": 1}, added["fresh"])

	idx.MarkPersisted()
	assert.Empty(t, idx.Added())
	assert.Equal(t, 2, idx.Len())
}

func TestCountBigrams(t *testing.T) {
	assert.Empty(t, countBigrams(""))
	assert.Empty(t, countBigrams("a"))
	assert.Equal(t, Bigrams{"ab": 2, "ba": 1}, countBigrams("abab"))
}
