package similarity

import "unicode/utf8"

// Scorer computes Sørensen–Dice similarity over character bigrams.
// A nil index disables memoization.
type Scorer struct {
	index *BigramIndex
}

// NewScorer creates a Scorer backed by index
func NewScorer(index *BigramIndex) *Scorer {
	return &Scorer{index: index}
}

// Similarity returns a score in [0,1]. Strings shorter than 2 characters score 0.
func (s *Scorer) Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la < 2 || lb < 2 {
		return 0
	}

	ba, bb := s.bigrams(a), s.bigrams(b)

	// Iterate the smaller multiset
	if len(bb) < len(ba) {
		ba, bb = bb, ba
	}
	match := 0
	for gram, ca := range ba {
		match += min(ca, bb[gram])
	}

	return 2 * float64(match) / float64(la+lb-2)
}

func (s *Scorer) bigrams(str string) Bigrams {
	if s == nil || s.index == nil {
		return countBigrams(str)
	}
	return s.index.Get(str)
}

// Similarity scores a and b without memoization
func Similarity(a, b string) float64 {
	var s *Scorer
	return s.Similarity(a, b)
}
