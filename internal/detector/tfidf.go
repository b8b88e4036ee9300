package detector

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// maxVocabulary caps the number of terms kept in the embedding space.
const maxVocabulary = 1000

// stopWords are common English words excluded from the vocabulary.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "but": true, "by": true, "for": true,
	"from": true, "has": true, "have": true, "he": true, "in": true,
	"is": true, "it": true, "its": true, "of": true, "on": true,
	"not": true, "or": true, "such": true, "that": true, "the": true,
	"their": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "to": true, "was": true, "were": true,
	"will": true, "with": true,
}

// vectorizer embeds documents into a sparse term-weighted vector space
// using unigram and bigram terms with TF-IDF weighting. The vocabulary is
// the top maxTerms terms by corpus frequency, selected deterministically.
type vectorizer struct {
	maxTerms int
	vocab    map[string]int
	idf      []float64
}

func newVectorizer(maxTerms int) *vectorizer {
	return &vectorizer{maxTerms: maxTerms}
}

// FitTransform builds the vocabulary from docs and returns one dense
// L2-normalized vector per document. It fails when no usable terms exist
// (e.g. all tokens are stop words or too short).
func (v *vectorizer) FitTransform(docs []string) ([][]float64, error) {
	termDocs := make([]map[string]int, len(docs))
	totalFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		counts := make(map[string]int)
		for _, term := range terms(doc) {
			counts[term]++
		}
		termDocs[i] = counts
		for term, c := range counts {
			totalFreq[term] += c
			docFreq[term]++
		}
	}

	if len(totalFreq) == 0 {
		return nil, errors.New("empty vocabulary")
	}

	// Keep the most frequent terms; ties broken lexicographically so the
	// embedding is stable across runs.
	type termFreq struct {
		term string
		freq int
	}
	ranked := make([]termFreq, 0, len(totalFreq))
	for term, freq := range totalFreq {
		ranked = append(ranked, termFreq{term, freq})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].freq != ranked[b].freq {
			return ranked[a].freq > ranked[b].freq
		}
		return ranked[a].term < ranked[b].term
	})
	if len(ranked) > v.maxTerms {
		ranked = ranked[:v.maxTerms]
	}

	v.vocab = make(map[string]int, len(ranked))
	v.idf = make([]float64, len(ranked))
	n := float64(len(docs))
	for i, tf := range ranked {
		v.vocab[tf.term] = i
		// Smoothed inverse document frequency.
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[tf.term]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for i, counts := range termDocs {
		vec := make([]float64, len(v.vocab))
		for term, c := range counts {
			if j, ok := v.vocab[term]; ok {
				vec[j] = float64(c) * v.idf[j]
			}
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors, nil
}

// terms tokenizes a document into lowercase unigrams and bigrams, dropping
// stop words and single-character tokens.
func terms(doc string) []string {
	fields := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}

	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 1; i < len(tokens); i++ {
		out = append(out, tokens[i-1]+" "+tokens[i])
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
