package cluster

import (
	"slices"

	"fsim/internal/ignore"
	"fsim/internal/models"
	"fsim/internal/similarity"
)

// DefaultMinRating is the similarity a pair must exceed to be matched
const DefaultMinRating = 0.7

// Builder groups files into single-link clusters by filename similarity
type Builder struct {
	minRating  float64
	scorer     *similarity.Scorer
	progressFn func(done, total int, current string)
}

// Option configures a Builder
type Option func(*Builder)

// WithScorer sets the scorer, typically one backed by a persisted BigramIndex
func WithScorer(s *similarity.Scorer) Option {
	return func(b *Builder) {
		if s != nil {
			b.scorer = s
		}
	}
}

// WithProgress sets a callback invoked after each seed is processed
func WithProgress(fn func(done, total int, current string)) Option {
	return func(b *Builder) {
		b.progressFn = fn
	}
}

// NewBuilder creates a Builder that matches pairs scoring strictly above minRating
func NewBuilder(minRating float64, opts ...Option) *Builder {
	b := &Builder{
		minRating: minRating,
		scorer:    similarity.NewScorer(similarity.NewBigramIndex()),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// MinRating returns the match threshold
func (b *Builder) MinRating() float64 {
	return b.minRating
}

// Build returns disjoint clusters of at least two entries each.
// Entries are consumed in order; each cluster starts with its seed and lists
// matches depth-first in the order they were found.
func (b *Builder) Build(entries []models.FileEntry, ignores ignore.Map) []models.Cluster {
	remaining := newPool(entries)
	total := remaining.len()

	var clusters []models.Cluster
	for {
		seed, ok := remaining.shift()
		if !ok {
			break
		}

		if remaining.len() > 0 {
			if matches := b.absorb(seed, remaining, ignores); len(matches) > 0 {
				cluster := make(models.Cluster, 0, len(matches)+1)
				cluster = append(cluster, seed.Key)
				cluster = append(cluster, matches...)
				clusters = append(clusters, cluster)
			}
		}

		if b.progressFn != nil {
			b.progressFn(total-remaining.len(), total, seed.Key)
		}
	}

	return clusters
}

// absorb removes every entry transitively reachable from seed and returns their keys
func (b *Builder) absorb(seed models.FileEntry, remaining *pool, ignores ignore.Map) []string {
	var matches []string

	stack := b.take(seed, remaining, ignores)
	slices.Reverse(stack)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		matches = append(matches, next.Key)

		found := b.take(next, remaining, ignores)
		slices.Reverse(found)
		stack = append(stack, found...)
	}

	return matches
}

// take removes and returns the direct matches of seed, in pool order
func (b *Builder) take(seed models.FileEntry, remaining *pool, ignores ignore.Map) []models.FileEntry {
	var found []models.FileEntry
	remaining.each(func(candidate models.FileEntry) {
		if b.scorer.Similarity(seed.CompareName, candidate.CompareName) <= b.minRating {
			return
		}
		if ignores.Ignores(seed.Key, candidate.Key) {
			return
		}
		found = append(found, candidate)
	})

	for _, e := range found {
		remaining.remove(e.Key)
	}
	return found
}
