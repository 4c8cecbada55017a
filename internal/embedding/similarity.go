// Package embedding provides text similarity for the matcher. The similarity
// function is a black box to the rest of the system: anything returning a
// value in [0,1] can be plugged in.
package embedding

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// Similarity computes a semantic similarity in [0,1] between two texts.
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Lexical is a deterministic cosine similarity over term-frequency vectors.
// It is the default implementation; deployments with an embedding service
// swap in a client satisfying Similarity.
type Lexical struct{}

// NewLexical creates the default lexical similarity function.
func NewLexical() *Lexical {
	return &Lexical{}
}

// Similarity returns the cosine similarity of the two texts' term-frequency
// vectors. Empty input on either side yields 0.
func (l *Lexical) Similarity(_ context.Context, a, b string) (float64, error) {
	va := termFrequencies(a)
	vb := termFrequencies(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0, nil
	}

	var dot, normA, normB float64
	for term, fa := range va {
		normA += fa * fa
		if fb, ok := vb[term]; ok {
			dot += fa * fb
		}
	}
	for _, fb := range vb {
		normB += fb * fb
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim, nil
}

func termFrequencies(text string) map[string]float64 {
	freqs := make(map[string]float64)
	for _, token := range tokenize(text) {
		freqs[token]++
	}
	return freqs
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
