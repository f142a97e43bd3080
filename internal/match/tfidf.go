package match

import (
	"math"
	"strings"
)

// Similarity scores how close two free-text documents are, in [0, 1].
// Implementations must be deterministic for a given pair of inputs.
type Similarity interface {
	Similarity(a, b string) float64
}

// TFIDF is a two-document TF-IDF cosine similarity. It is the default
// semantic oracle; a remote embedding service can replace it behind the
// Similarity interface without touching the scorer.
type TFIDF struct{}

// NewTFIDF returns the default similarity oracle.
func NewTFIDF() *TFIDF { return &TFIDF{} }

// Similarity tokenizes both documents, weighs terms by tf-idf over the
// two-document corpus and returns the cosine of the resulting vectors.
func (t *TFIDF) Similarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	tfA := termFrequencies(tokensA)
	tfB := termFrequencies(tokensB)

	// Smoothed idf over the two-document corpus, sklearn style:
	// idf = ln((1+n)/(1+df)) + 1 with n = 2.
	idf := func(term string) float64 {
		df := 0
		if _, ok := tfA[term]; ok {
			df++
		}
		if _, ok := tfB[term]; ok {
			df++
		}
		return math.Log(3.0/(1.0+float64(df))) + 1.0
	}

	var dot, normA, normB float64
	for term, fa := range tfA {
		wa := fa * idf(term)
		normA += wa * wa
		if fb, ok := tfB[term]; ok {
			dot += wa * fb * idf(term)
		}
	}
	for term, fb := range tfB {
		wb := fb * idf(term)
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		tf[token]++
	}
	return tf
}

func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 1 {
			tokens = append(tokens, b.String())
		}
		b.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
