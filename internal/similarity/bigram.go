package similarity

// Bigrams maps each 2-character substring of a string to its occurrence count
type Bigrams map[string]int

// countBigrams builds the bigram multiset of s over runes.
// Strings shorter than 2 runes have no bigrams.
func countBigrams(s string) Bigrams {
	runes := []rune(s)
	if len(runes) < 2 {
		return Bigrams{}
	}

	counts := make(Bigrams, len(runes)-1)
	for i := range len(runes) - 1 {
		counts[string(runes[i:i+2])]++
	}
	return counts
}

// BigramIndex memoizes bigram multisets per string for the lifetime of one run.
// It is not safe for concurrent use.
type BigramIndex struct {
	entries map[string]Bigrams
	added   map[string]struct{} // computed since the index was created or loaded
	hits    int
	misses  int
}

// NewBigramIndex creates an empty BigramIndex
func NewBigramIndex() *BigramIndex {
	return &BigramIndex{
		entries: make(map[string]Bigrams),
		added:   make(map[string]struct{}),
	}
}

// Get returns the bigram multiset for s, computing and storing it on first use.
// The returned map must not be modified.
func (idx *BigramIndex) Get(s string) Bigrams {
	if b, ok := idx.entries[s]; ok {
		idx.hits++
		return b
	}
	idx.misses++
	b := countBigrams(s)
	idx.entries[s] = b
	idx.added[s] = struct{}{}
	return b
}

// Put stores a previously persisted multiset without marking it as new
func (idx *BigramIndex) Put(s string, b Bigrams) {
	idx.entries[s] = b
}

// Len returns the number of memoized strings
func (idx *BigramIndex) Len() int {
	return len(idx.entries)
}

// Added returns the strings computed since creation or load, with their multisets
func (idx *BigramIndex) Added() map[string]Bigrams {
	out := make(map[string]Bigrams, len(idx.added))
	for s := range idx.added {
		out[s] = idx.entries[s]
	}
	return out
}

// MarkPersisted clears the set of newly computed entries
func (idx *BigramIndex) MarkPersisted() {
	clear(idx.added)
}

// Stats returns lookup hits and misses
func (idx *BigramIndex) Stats() (hits, misses int) {
	return idx.hits, idx.misses
}
