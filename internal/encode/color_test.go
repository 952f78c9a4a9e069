package encode

import (
	"fmt"
	"testing"
)

func TestColorMap_FirstEncounterOrder(t *testing.T) {
	labels := []string{"Cloud", "Energy", "Cloud", "Carbon"}

	colors := ColorMap(labels)
	if colors["Cloud"] != GreenPalette[0] {
		t.Errorf("first label should take palette[0], got %s", colors["Cloud"])
	}
	if colors["Energy"] != GreenPalette[1] {
		t.Errorf("second distinct label should take palette[1], got %s", colors["Energy"])
	}
	if colors["Carbon"] != GreenPalette[2] {
		t.Errorf("third distinct label should take palette[2], got %s", colors["Carbon"])
	}
}

func TestColorMap_Stable(t *testing.T) {
	labels := []string{"a", "b", "c", "a", "b"}

	first := ColorMap(labels)
	second := ColorMap(labels)
	for label, color := range first {
		if second[label] != color {
			t.Errorf("label %q: color changed between passes: %s vs %s", label, color, second[label])
		}
	}
}

func TestColorMap_WrapsAroundPalette(t *testing.T) {
	labels := make([]string, 9)
	for i := range labels {
		labels[i] = fmt.Sprintf("label-%d", i)
	}

	colors := ColorMap(labels)
	if colors["label-8"] != colors["label-0"] {
		t.Errorf("ninth label should wrap to the first palette entry: %s vs %s",
			colors["label-8"], colors["label-0"])
	}
}

func TestColorMapWithPalette_EmptyPalette(t *testing.T) {
	colors := ColorMapWithPalette([]string{"a"}, nil)
	if len(colors) != 0 {
		t.Errorf("expected no assignments for empty palette, got %v", colors)
	}
}
