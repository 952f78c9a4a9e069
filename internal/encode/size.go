// Package encode derives the visual size and color encodings for the topic
// map from topic popularity and label order.
package encode

import (
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/seedslab/seeds-analytics/pkg/models"
)

// Default visual size bounds for topic bubbles.
const (
	SizeMin = 8.0
	SizeMax = 28.0
)

// SizeScaler maps raw topic popularity into a bounded visual range.
type SizeScaler struct {
	Min float64
	Max float64
}

// NewSizeScaler creates a scaler over the default [SizeMin, SizeMax] range.
func NewSizeScaler() *SizeScaler {
	return &SizeScaler{Min: SizeMin, Max: SizeMax}
}

// popularitySource is one candidate way to derive raw popularity per topic.
// Each returns (values, true) when its backing data is usable, or (nil,
// false) to pass to the next candidate. The chain is explicit rather than
// exception-driven.
type popularitySource func() ([]float64, bool)

// Sizes derives one scaled size per topic id. Document counts from the
// frequency table are preferred; per-label blog counts come next; with
// neither, every topic gets the same size.
func (s *SizeScaler) Sizes(topicIDs []int, freqs []models.TopicFrequency, blogs []models.BlogPost, labels map[string]string) []float64 {
	sources := []popularitySource{
		func() ([]float64, bool) { return frequencyTotals(topicIDs, freqs) },
		func() ([]float64, bool) { return labelCounts(topicIDs, blogs, labels) },
		func() ([]float64, bool) { return uniform(len(topicIDs)), true },
	}

	var raw []float64
	for _, candidate := range sources {
		if values, ok := candidate(); ok {
			raw = values
			break
		}
	}
	return s.scale(raw)
}

// scale min-max normalizes raw values into [Min, Max]. A zero-range input
// collapses every output to the midpoint rather than dividing by zero.
func (s *SizeScaler) scale(raw []float64) []float64 {
	if len(raw) == 0 {
		return nil
	}

	lo := floats.Min(raw)
	hi := floats.Max(raw)
	scaled := make([]float64, len(raw))
	if hi == lo {
		mid := (s.Min + s.Max) / 2
		for i := range scaled {
			scaled[i] = mid
		}
		return scaled
	}

	for i, v := range raw {
		scaled[i] = s.Min + (v-lo)/(hi-lo)*(s.Max-s.Min)
	}
	return scaled
}

// frequencyTotals sums document counts per topic id from the topic-over-time
// table. A topic absent from the table defaults to 1.0.
func frequencyTotals(topicIDs []int, freqs []models.TopicFrequency) ([]float64, bool) {
	if len(freqs) == 0 {
		return nil, false
	}

	totals := make(map[int]float64, len(freqs))
	for _, f := range freqs {
		totals[f.Topic] += f.Count
	}

	raw := make([]float64, len(topicIDs))
	for i, id := range topicIDs {
		if total, ok := totals[id]; ok && total != 0 {
			raw[i] = total
		} else {
			raw[i] = 1.0
		}
	}
	return raw, true
}

// labelCounts counts blog posts per topic label. Usable only when blog
// metadata with topic labels is present.
func labelCounts(topicIDs []int, blogs []models.BlogPost, labels map[string]string) ([]float64, bool) {
	if len(blogs) == 0 {
		return nil, false
	}

	perLabel := make(map[string]float64)
	usable := false
	for _, blog := range blogs {
		if blog.TopicLabel != "" {
			usable = true
		}
		perLabel[blog.TopicLabel]++
	}
	if !usable {
		return nil, false
	}

	raw := make([]float64, len(topicIDs))
	for i, id := range topicIDs {
		key := strconv.Itoa(id)
		label, ok := labels[key]
		if !ok {
			label = key
		}
		if count, ok := perLabel[label]; ok && count != 0 {
			raw[i] = count
		} else {
			raw[i] = 1.0
		}
	}
	return raw, true
}

func uniform(n int) []float64 {
	raw := make([]float64, n)
	for i := range raw {
		raw[i] = 1.0
	}
	return raw
}
