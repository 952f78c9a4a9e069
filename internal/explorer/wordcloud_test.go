package explorer

import (
	"testing"
)

func TestWordCloud(t *testing.T) {
	counts := NewService(testContext()).WordCloud([]string{"Energy Efficiency"}, 3)
	if len(counts) != 3 {
		t.Fatalf("expected 3 words, got %v", counts)
	}
	if counts[0].Name != "energy" || counts[0].Count != 5 {
		t.Errorf("expected (energy, 5) first, got (%s, %f)", counts[0].Name, counts[0].Count)
	}
	// builds and carbon tie at 2; builds was encountered first.
	if counts[1].Name != "builds" || counts[2].Name != "carbon" {
		t.Errorf("unexpected tail: %v", counts[1:])
	}
}

func TestWordCloud_ExcludesUnselectedLabels(t *testing.T) {
	counts := NewService(testContext()).WordCloud([]string{"Energy Efficiency"}, 0)
	for _, c := range counts {
		if c.Name == "kubernetes" {
			t.Error("word from an unselected label leaked into the cloud")
		}
	}
}

func TestWordCloud_NoMatchingArticles(t *testing.T) {
	if counts := NewService(testContext()).WordCloud([]string{"Unknown"}, 10); len(counts) != 0 {
		t.Errorf("expected empty cloud, got %v", counts)
	}
}

func TestTokenize(t *testing.T) {
	words := tokenize("The Energy-efficient CI: a win, we think!")
	want := []string{"energy", "efficient", "win", "think"}
	if len(words) != len(want) {
		t.Fatalf("expected %v, got %v", want, words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, words)
		}
	}
}
