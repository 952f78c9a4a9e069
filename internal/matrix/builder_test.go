package matrix

import (
	"math"
	"testing"

	"github.com/seedslab/seeds-analytics/pkg/models"
)

func topicNumber(n int) *int {
	return &n
}

func TestBuild_RowPerTopicAndColumnPerTerm(t *testing.T) {
	records := []models.TopicRecord{
		{TopicNumber: topicNumber(0), Keywords: []models.Keyword{
			{Term: "energy", Score: 0.5},
			{Term: "carbon", Score: 0.3},
		}},
		{TopicNumber: topicNumber(1), Keywords: []models.Keyword{
			{Term: "cloud", Score: 0.8},
			{Term: "energy", Score: 0.1},
		}},
	}

	result := Build(records)
	if result.Empty() {
		t.Fatal("expected non-empty result")
	}

	rows, cols := result.X.Dims()
	if rows != 2 {
		t.Errorf("expected 2 rows, got %d", rows)
	}
	if cols != 3 {
		t.Errorf("expected 3 columns for 3 distinct terms, got %d", cols)
	}

	expectedVocab := []string{"carbon", "cloud", "energy"}
	for i, term := range expectedVocab {
		if result.Vocabulary[i] != term {
			t.Errorf("vocabulary[%d]: expected %q, got %q", i, term, result.Vocabulary[i])
		}
	}
}

func TestBuild_RowSumEqualsKeywordWeights(t *testing.T) {
	records := []models.TopicRecord{
		{TopicNumber: topicNumber(3), Keywords: []models.Keyword{
			{Term: "green", Score: 0.4},
			{Term: "software", Score: 0.25},
			{Term: "emissions", Score: 0.15},
		}},
	}

	result := Build(records)
	rows, cols := result.X.Dims()
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}

	var sum float64
	for j := 0; j < cols; j++ {
		sum += result.X.At(0, j)
	}
	if math.Abs(sum-0.8) > 1e-12 {
		t.Errorf("expected row sum 0.8, got %f", sum)
	}
}

func TestBuild_EmptyInputYieldsEmptyResult(t *testing.T) {
	result := Build(nil)
	if !result.Empty() {
		t.Error("expected empty result for nil input")
	}

	result = Build([]models.TopicRecord{})
	if !result.Empty() {
		t.Error("expected empty result for empty input")
	}

	// Topics exist but have no keywords: vocabulary is empty.
	result = Build([]models.TopicRecord{{TopicNumber: topicNumber(1)}})
	if !result.Empty() {
		t.Error("expected empty result for keyword-less topics")
	}
}

func TestBuild_SkipsTopicsWithoutNumber(t *testing.T) {
	records := []models.TopicRecord{
		{TopicNumber: nil, Keywords: []models.Keyword{{Term: "skip", Score: 1.0}}},
		{TopicNumber: topicNumber(7), Keywords: []models.Keyword{{Term: "keep", Score: 1.0}}},
	}

	result := Build(records)
	rows, _ := result.X.Dims()
	if rows != 1 {
		t.Errorf("expected 1 row, got %d", rows)
	}
	if len(result.TopicIDs) != 1 || result.TopicIDs[0] != 7 {
		t.Errorf("expected topic ids [7], got %v", result.TopicIDs)
	}
}

func TestBuild_MalformedScoreBecomesZero(t *testing.T) {
	records := []models.TopicRecord{
		{TopicNumber: topicNumber(0), Keywords: []models.Keyword{
			{Term: "good", Score: "0.5"},
			{Term: "bad", Score: "not-a-number"},
			{Term: "worse", Score: []any{"junk"}},
		}},
	}

	result := Build(records)
	if result.Empty() {
		t.Fatal("a malformed score must not abort the build")
	}

	var sum float64
	_, cols := result.X.Dims()
	for j := 0; j < cols; j++ {
		sum += result.X.At(0, j)
	}
	if math.Abs(sum-0.5) > 1e-12 {
		t.Errorf("expected row sum 0.5 after zeroing malformed scores, got %f", sum)
	}
}

func TestBuild_TopKeywordsPreservesUpstreamOrder(t *testing.T) {
	records := []models.TopicRecord{
		{TopicNumber: topicNumber(0), Keywords: []models.Keyword{
			{Term: "f", Score: 0.1},
			{Term: "a", Score: 0.9},
			{Term: "c", Score: 0.5},
			{Term: "b", Score: 0.7},
			{Term: "e", Score: 0.2},
			{Term: "d", Score: 0.3},
		}},
		{TopicNumber: topicNumber(1), Keywords: []models.Keyword{
			{Term: "x", Score: 1.0},
		}},
	}

	result := Build(records)
	if result.TopKeywords[0] != "f, a, c, b, e" {
		t.Errorf("expected upstream order preserved, got %q", result.TopKeywords[0])
	}
	if result.TopKeywords[1] != "x" {
		t.Errorf("expected %q, got %q", "x", result.TopKeywords[1])
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"float", 0.25, 0.25},
		{"int", 3, 3},
		{"numeric string", " 0.5 ", 0.5},
		{"junk string", "n/a", 0},
		{"nil", nil, 0},
		{"slice", []any{1.0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseScore(tt.raw); got != tt.want {
				t.Errorf("ParseScore(%v) = %f, want %f", tt.raw, got, tt.want)
			}
		})
	}
}
