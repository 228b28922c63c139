// Package lexical scores how closely a short text matches a list of
// keywords using TF-IDF weighted cosine similarity.
package lexical

import (
	"math"
	"strings"
)

// corpus holds the documents of a single similarity computation. It is
// built per call and never shared, so IDF weights cannot drift between
// unrelated comparisons.
type corpus struct {
	documents    []map[string]float64 // raw term counts
	documentFreq map[string]int
}

func newCorpus(docs ...[]string) *corpus {
	c := &corpus{
		documents:    make([]map[string]float64, 0, len(docs)),
		documentFreq: make(map[string]int),
	}
	for _, terms := range docs {
		counts := make(map[string]float64)
		for _, term := range terms {
			counts[term]++
		}
		for term := range counts {
			c.documentFreq[term]++
		}
		c.documents = append(c.documents, counts)
	}
	return c
}

// idf uses the smoothed form 1 + ln(N/(1+df)). Terms present in every
// document of a two-document corpus keep a positive weight.
func (c *corpus) idf(term string) float64 {
	return 1 + math.Log(float64(len(c.documents))/float64(1+c.documentFreq[term]))
}

func (c *corpus) vector(i int) map[string]float64 {
	vec := make(map[string]float64, len(c.documents[i]))
	for term, tf := range c.documents[i] {
		vec[term] = tf * c.idf(term)
	}
	return vec
}

// Cosine returns the cosine similarity of two sparse vectors, or 0 when
// either vector has zero length.
func Cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64

	for term, va := range a {
		normA += va * va
		if vb, ok := b[term]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1 {
		sim = 1
	}
	return sim
}

// Similarity compares text against the user's keywords. The keywords are
// joined into a second document and both are weighted against a corpus of
// exactly those two documents. Empty input on either side yields 0.
func Similarity(text string, keywords []string) float64 {
	textTerms := Tokenize(text)
	keywordTerms := Tokenize(strings.Join(keywords, " "))
	if len(textTerms) == 0 || len(keywordTerms) == 0 {
		return 0
	}

	c := newCorpus(textTerms, keywordTerms)
	return Cosine(c.vector(0), c.vector(1))
}
