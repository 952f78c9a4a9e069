package encode

import (
	"testing"
	"time"

	"github.com/seedslab/seeds-analytics/pkg/models"
)

func freqRow(topic int, count float64) models.TopicFrequency {
	return models.TopicFrequency{Topic: topic, Timestamp: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), Count: count}
}

func TestSizes_FrequencyTablePreferred(t *testing.T) {
	topicIDs := []int{0, 1, 2}
	freqs := []models.TopicFrequency{
		freqRow(0, 10), freqRow(0, 10),
		freqRow(1, 5),
		freqRow(2, 1),
	}
	// Blog data present too; the frequency table must still win.
	blogs := []models.BlogPost{{TopicLabel: "Energy"}}

	sizes := NewSizeScaler().Sizes(topicIDs, freqs, blogs, map[string]string{"0": "Energy"})
	if len(sizes) != 3 {
		t.Fatalf("expected 3 sizes, got %d", len(sizes))
	}

	// Topic 0 has raw 20, topic 1 raw 5, topic 2 raw 1.
	if sizes[0] != SizeMax {
		t.Errorf("most popular topic should hit SizeMax, got %f", sizes[0])
	}
	if sizes[2] != SizeMin {
		t.Errorf("least popular topic should hit SizeMin, got %f", sizes[2])
	}
	if !(sizes[1] > sizes[2] && sizes[1] < sizes[0]) {
		t.Errorf("middle topic should land between bounds, got %f", sizes[1])
	}
}

func TestSizes_Monotonic(t *testing.T) {
	topicIDs := []int{0, 1, 2, 3}
	freqs := []models.TopicFrequency{
		freqRow(0, 1), freqRow(1, 2), freqRow(2, 3), freqRow(3, 4),
	}

	sizes := NewSizeScaler().Sizes(topicIDs, freqs, nil, nil)
	for i := 1; i < len(sizes); i++ {
		if sizes[i] < sizes[i-1] {
			t.Errorf("higher raw popularity yielded smaller size: %f < %f", sizes[i], sizes[i-1])
		}
	}
	for _, s := range sizes {
		if s < SizeMin || s > SizeMax {
			t.Errorf("size %f outside [%f, %f]", s, SizeMin, SizeMax)
		}
	}
}

func TestSizes_LabelCountFallback(t *testing.T) {
	topicIDs := []int{0, 1}
	blogs := []models.BlogPost{
		{TopicLabel: "Energy"},
		{TopicLabel: "Energy"},
		{TopicLabel: "Energy"},
		{TopicLabel: "Carbon"},
	}
	labels := map[string]string{"0": "Energy", "1": "Carbon"}

	sizes := NewSizeScaler().Sizes(topicIDs, nil, blogs, labels)
	if sizes[0] != SizeMax || sizes[1] != SizeMin {
		t.Errorf("expected label counts to drive sizes, got %v", sizes)
	}
}

func TestSizes_UniformFallbackCollapsesToMidpoint(t *testing.T) {
	topicIDs := []int{4, 5, 6}

	sizes := NewSizeScaler().Sizes(topicIDs, nil, nil, nil)
	mid := (SizeMin + SizeMax) / 2
	for i, s := range sizes {
		if s != mid {
			t.Errorf("size[%d]: expected midpoint %f for uniform popularity, got %f", i, mid, s)
		}
	}
}

func TestSizes_AllEqualRawAvoidsDivisionByZero(t *testing.T) {
	topicIDs := []int{0, 1}
	freqs := []models.TopicFrequency{freqRow(0, 7), freqRow(1, 7)}

	sizes := NewSizeScaler().Sizes(topicIDs, freqs, nil, nil)
	mid := (SizeMin + SizeMax) / 2
	for _, s := range sizes {
		if s != mid {
			t.Errorf("zero-range input should collapse to %f, got %f", mid, s)
		}
	}
}

func TestSizes_MissingTopicDefaultsToOne(t *testing.T) {
	topicIDs := []int{0, 9}
	freqs := []models.TopicFrequency{freqRow(0, 10)}

	sizes := NewSizeScaler().Sizes(topicIDs, freqs, nil, nil)
	if sizes[1] != SizeMin {
		t.Errorf("unseen topic should default to raw 1.0 and scale to SizeMin, got %f", sizes[1])
	}
}
