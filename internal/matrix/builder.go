// Package matrix builds the fixed-vocabulary keyword-weight matrix that
// feeds the dimensionality reducer when no precomputed layout is available.
package matrix

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/seedslab/seeds-analytics/pkg/models"
)

// Result holds the built matrix with its row-aligned companions.
type Result struct {
	// X has one row per surviving topic and one column per vocabulary term.
	// Nil when the vocabulary is empty; callers must treat that as "no data
	// available", not as an error.
	X *mat.Dense

	// Vocabulary is the deterministic (lexicographic) column order.
	Vocabulary []string

	// TopicIDs is index-aligned with the rows of X.
	TopicIDs []int

	// TopKeywords is the comma-joined first five terms of each topic's list
	// in upstream order, index-aligned with the rows of X.
	TopKeywords []string
}

// Empty reports whether no matrix could be built.
func (r *Result) Empty() bool {
	return r.X == nil || len(r.TopicIDs) == 0
}

// Build constructs the feature matrix from the per-topic keyword lists.
// Topics without a topic number are skipped; an unparseable score zeroes
// that one cell rather than aborting the build.
func Build(records []models.TopicRecord) *Result {
	vocab := buildVocabulary(records)
	if len(vocab) == 0 {
		return &Result{}
	}

	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	result := &Result{Vocabulary: vocab}
	var rows []float64
	for _, record := range records {
		if record.TopicNumber == nil {
			continue
		}

		vec := make([]float64, len(vocab))
		for _, kw := range record.Keywords {
			if j, ok := index[kw.Term]; ok {
				vec[j] = ParseScore(kw.Score)
			}
		}
		rows = append(rows, vec...)
		result.TopicIDs = append(result.TopicIDs, *record.TopicNumber)
		result.TopKeywords = append(result.TopKeywords, topFive(record.Keywords))
	}

	if len(result.TopicIDs) == 0 {
		return &Result{Vocabulary: vocab}
	}
	result.X = mat.NewDense(len(result.TopicIDs), len(vocab), rows)
	return result
}

// buildVocabulary collects every distinct term across all records in
// lexicographic order, so matrix columns are reproducible across runs.
func buildVocabulary(records []models.TopicRecord) []string {
	seen := make(map[string]struct{})
	for _, record := range records {
		for _, kw := range record.Keywords {
			seen[kw.Term] = struct{}{}
		}
	}

	vocab := make([]string, 0, len(seen))
	for term := range seen {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	return vocab
}

// ParseScore coerces an upstream score value to float64, substituting 0.0
// for anything unparseable.
func ParseScore(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// topFive joins the first five terms in upstream order, preserving the
// ranking produced by the topic model rather than re-sorting by weight.
func topFive(keywords []models.Keyword) string {
	n := len(keywords)
	if n == 0 {
		return ""
	}
	if n > 5 {
		n = 5
	}
	terms := make([]string, n)
	for i := 0; i < n; i++ {
		terms[i] = keywords[i].Term
	}
	return strings.Join(terms, ", ")
}
