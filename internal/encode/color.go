package encode

// GreenPalette is the fixed palette shared by every view.
var GreenPalette = []string{
	"#2ecc40", "#27ae60", "#16a085", "#229954",
	"#1e8449", "#239b56", "#28b463", "#58d68d",
}

// ColorMap assigns each distinct label a palette color in first-encounter
// order, wrapping around when labels outnumber palette entries. The same
// label always maps to the same color within one pass.
func ColorMap(labels []string) map[string]string {
	return ColorMapWithPalette(labels, GreenPalette)
}

// ColorMapWithPalette is ColorMap over a caller-supplied palette.
func ColorMapWithPalette(labels []string, palette []string) map[string]string {
	colors := make(map[string]string)
	if len(palette) == 0 {
		return colors
	}

	next := 0
	for _, label := range labels {
		if _, ok := colors[label]; ok {
			continue
		}
		colors[label] = palette[next%len(palette)]
		next++
	}
	return colors
}
