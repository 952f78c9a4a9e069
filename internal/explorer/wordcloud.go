package explorer

import (
	"strings"
	"unicode"

	"github.com/seedslab/seeds-analytics/internal/aggregate"
	"github.com/seedslab/seeds-analytics/pkg/models"
)

// minWordLength filters tokens too short to carry meaning in a word cloud.
const minWordLength = 3

// WordCloud counts the content words across the article bodies under the
// selected labels, most frequent first, truncated to limit when positive.
// The caller renders the cloud; this is the term-count data behind it.
func (s *Service) WordCloud(selectedLabels []string, limit int) []models.CategoryCount {
	selected := make(map[string]struct{}, len(selectedLabels))
	for _, label := range selectedLabels {
		selected[label] = struct{}{}
	}

	var words []string
	for _, blog := range s.data.Blogs {
		if _, ok := selected[blog.TopicLabel]; !ok {
			continue
		}
		words = append(words, tokenize(blog.Body)...)
	}

	counts := aggregate.CountByName(words)
	if limit > 0 && limit < len(counts) {
		counts = counts[:limit]
	}
	return counts
}

func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	kept := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < minWordLength || stopWords[word] {
			continue
		}
		kept = append(kept, word)
	}
	return kept
}

var stopWords = buildStopWords()

func buildStopWords() map[string]bool {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "have", "he", "in", "is", "it", "its", "of", "on", "or",
		"she", "that", "the", "they", "this", "to", "was", "were", "will",
		"with", "you", "your", "we", "our", "their", "them", "there", "these",
		"those", "been", "being", "had", "having", "do", "does", "did", "doing",
		"would", "could", "should", "may", "might", "must", "can", "cannot",
		"about", "above", "after", "again", "against", "all", "am", "any",
		"because", "before", "below", "between", "both", "but", "during",
		"each", "few", "further", "here", "how", "if", "into", "just", "more",
		"most", "no", "nor", "not", "now", "only", "other", "out", "own",
		"same", "so", "some", "such", "than", "then", "through", "too", "under",
		"until", "up", "very", "what", "when", "where", "which", "while", "who",
		"whom", "why", "also", "however", "therefore", "thus", "hence", "yet",
	}

	result := make(map[string]bool, len(words))
	for _, w := range words {
		result[w] = true
	}
	return result
}
