package cluster

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsim/internal/ignore"
	"fsim/internal/models"
	"fsim/internal/similarity"
)

func entries(names ...string) []models.FileEntry {
	out := make([]models.FileEntry, len(names))
	for i, n := range names {
		out[i] = models.FileEntry{Key: n, CompareName: similarity.CompareKey(n)}
	}
	return out
}

func TestBuild_Empty(t *testing.T) {
	b := NewBuilder(DefaultMinRating)
	assert.Nil(t, b.Build(nil, nil))
	assert.Nil(t, b.Build(entries("lonely.txt"), nil))
}

func TestBuild_SameStemDifferentExtension(t *testing.T) {
	b := NewBuilder(DefaultMinRating)
	clusters := b.Build(entries("Report.txt", "Report.pdf"), nil)

	require.Len(t, clusters, 1)
	assert.Equal(t, models.Cluster{"Report.txt", "Report.pdf"}, clusters[0])
}

func TestBuild_IgnoredPair(t *testing.T) {
	ignores := ignore.Build([]string{"Report.txt", "Report.pdf", "--"}, "--")

	for _, order := range [][]string{
		{"Report.txt", "Report.pdf"},
		{"Report.pdf", "Report.txt"},
	} {
		clusters := NewBuilder(DefaultMinRating).Build(entries(order...), ignores)
		assert.Empty(t, clusters, "order %v", order)
	}
}

func TestBuild_TwoVolumeSets(t *testing.T) {
	b := NewBuilder(DefaultMinRating)
	clusters := b.Build(entries(
		"Vol1 - Knuth.txt",
		"Vol1 - Stevens.txt",
		"Vol2 - Knuth.epub",
		"Vol2 - Stevens.pdf",
	), nil)

	require.Len(t, clusters, 2)
	assert.Equal(t, models.Cluster{"Vol1 - Knuth.txt", "Vol2 - Knuth.epub"}, clusters[0])
	assert.Equal(t, models.Cluster{"Vol1 - Stevens.txt", "Vol2 - Stevens.pdf"}, clusters[1])
}

func TestBuild_Transitive(t *testing.T) {
	// abcde~abcdX and abcdX~YbcdX score 0.75; abcde~YbcdX scores 0.5
	require.LessOrEqual(t, similarity.Similarity("abcde", "YbcdX"), DefaultMinRating)

	clusters := NewBuilder(DefaultMinRating).Build(entries("abcde.txt", "YbcdX.txt", "abcdX.txt"), nil)

	require.Len(t, clusters, 1)
	assert.Equal(t, models.Cluster{"abcde.txt", "abcdX.txt", "YbcdX.txt"}, clusters[0])
}

func TestBuild_DepthFirstOrder(t *testing.T) {
	// abcde matches abcdX and abcdZ directly; YbcdX is only reached through abcdX
	clusters := NewBuilder(DefaultMinRating).Build(
		entries("abcde", "abcdX", "YbcdX", "abcdZ"), nil)

	require.Len(t, clusters, 1)
	assert.Equal(t, models.Cluster{"abcde", "abcdX", "YbcdX", "abcdZ"}, clusters[0])
}

func TestBuild_IgnoredPairJoinedThroughThirdFile(t *testing.T) {
	// Only the current seed's ignore set is consulted, so a bridge still links a and b
	ignores := ignore.Build([]string{"a/Report.txt", "b/Report.txt", "--"}, "--")
	clusters := NewBuilder(DefaultMinRating).Build(
		entries("a/Report.txt", "b/Report.txt", "c/Report.txt"), ignores)

	require.Len(t, clusters, 1)
	assert.Equal(t, models.Cluster{"a/Report.txt", "c/Report.txt", "b/Report.txt"}, clusters[0])
}

func TestBuild_Threshold(t *testing.T) {
	files := entries("abcde", "abcdX")

	assert.Len(t, NewBuilder(0.74).Build(files, nil), 1)
	// Strictly greater than: 0.75 does not exceed 0.75
	assert.Empty(t, NewBuilder(0.75).Build(files, nil))
	assert.Empty(t, NewBuilder(1.0).Build(entries("same.a", "same.b"), nil))
}

func TestBuild_ZeroThresholdSkipsDegenerateNames(t *testing.T) {
	// Single character names score 0 and never exceed a threshold of 0
	clusters := NewBuilder(0).Build(entries("a.txt", "b.txt", "xy", "zw"), nil)
	assert.Empty(t, clusters)

	clusters = NewBuilder(-1).Build(entries("a.txt", "b.txt"), nil)
	assert.Len(t, clusters, 1)
}

func TestBuild_DuplicateKeys(t *testing.T) {
	clusters := NewBuilder(DefaultMinRating).Build(entries("x.txt", "x.txt"), nil)
	assert.Empty(t, clusters)
}

func TestBuild_Progress(t *testing.T) {
	var calls [][2]int
	b := NewBuilder(DefaultMinRating, WithProgress(func(done, total int, _ string) {
		calls = append(calls, [2]int{done, total})
	}))

	b.Build(entries("Report.txt", "Report.pdf", "other"), nil)

	// The first seed consumes its match, so only two seeds are processed
	assert.Equal(t, [][2]int{{2, 3}, {3, 3}}, calls)
}

func TestBuild_UsesScorerIndex(t *testing.T) {
	idx := similarity.NewBigramIndex()
	b := NewBuilder(DefaultMinRating, WithScorer(similarity.NewScorer(idx)))
	b.Build(entries("Report.txt", "Report.pdf", "Summary.doc"), nil)

	assert.Equal(t, 2, idx.Len())
}

// recursiveBuild is a direct recursive rendition used to check the iterative builder
func recursiveBuild(files []models.FileEntry, minRating float64, ignores ignore.Map) []models.Cluster {
	remaining := append([]models.FileEntry(nil), files...)

	var find func(seed models.FileEntry) []string
	find = func(seed models.FileEntry) []string {
		var direct []models.FileEntry
		var rest []models.FileEntry
		for _, f := range remaining {
			if similarity.Similarity(seed.CompareName, f.CompareName) > minRating && !ignores.Ignores(seed.Key, f.Key) {
				direct = append(direct, f)
			} else {
				rest = append(rest, f)
			}
		}
		remaining = rest

		var out []string
		for _, d := range direct {
			out = append(out, d.Key)
			out = append(out, find(d)...)
		}
		return out
	}

	var clusters []models.Cluster
	for len(remaining) > 0 {
		seed := remaining[0]
		remaining = remaining[1:]
		if len(remaining) == 0 {
			break
		}
		if m := find(seed); len(m) > 0 {
			clusters = append(clusters, append(models.Cluster{seed.Key}, m...))
		}
	}
	return clusters
}

func TestBuild_MatchesRecursiveFormulation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcd")

	for round := 0; round < 50; round++ {
		n := 2 + rng.Intn(25)
		seen := make(map[string]bool)
		var names []string
		for len(names) < n {
			l := 3 + rng.Intn(4)
			r := make([]rune, l)
			for i := range r {
				r[i] = alphabet[rng.Intn(len(alphabet))]
			}
			name := string(r) + ".txt"
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}

		var lines []string
		for i := 0; i+1 < len(names); i += 5 {
			lines = append(lines, names[i], names[i+1], "--")
		}
		ignores := ignore.Build(lines, "--")
		files := entries(names...)

		got := NewBuilder(0.5).Build(files, ignores)
		want := recursiveBuild(files, 0.5, ignores)
		require.Equal(t, want, got, "round %d: %v", round, names)

		// Disjoint and at least two members each
		member := make(map[string]bool)
		for _, c := range got {
			assert.GreaterOrEqual(t, len(c), 2)
			for _, k := range c {
				assert.False(t, member[k], "%s in more than one cluster", k)
				member[k] = true
			}
		}
	}
}

func TestPool(t *testing.T) {
	p := newPool(entries("a", "b", "c"))
	p.remove("b")
	assert.False(t, p.contains("b"))

	var keys []string
	p.each(func(e models.FileEntry) { keys = append(keys, e.Key) })
	assert.Equal(t, []string{"a", "c"}, keys)

	first, ok := p.shift()
	require.True(t, ok)
	assert.Equal(t, "a", first.Key)
	assert.Equal(t, 1, p.len())
}

func TestNewBuilder_MinRating(t *testing.T) {
	assert.Equal(t, DefaultMinRating, NewBuilder(DefaultMinRating).MinRating())
	assert.Equal(t, 0.9, NewBuilder(0.9, WithProgress(nil)).MinRating())
}
