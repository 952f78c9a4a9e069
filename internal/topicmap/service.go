// Package topicmap assembles the 3D topic map from the highest-priority
// usable source: the precomputed layout file when present, otherwise the
// keyword-derived matrix pipeline.
package topicmap

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/seedslab/seeds-analytics/internal/encode"
	"github.com/seedslab/seeds-analytics/internal/matrix"
	"github.com/seedslab/seeds-analytics/internal/reduce"
	"github.com/seedslab/seeds-analytics/internal/source"
	"github.com/seedslab/seeds-analytics/pkg/models"
)

// ErrNoData reports structural emptiness: no precomputed layout and no
// usable keyword data. Callers render a "nothing to show" state, never a
// crash.
var ErrNoData = errors.New("no topic map data available")

// Sources of a built map.
const (
	SourcePrecomputed = "precomputed"
	SourceKeywords    = "keywords"
)

// Result is the assembled topic map.
type Result struct {
	Points []models.TopicPoint `json:"points"`
	// Source tells which candidate produced the map.
	Source string `json:"source"`
	// Method names the reduction strategy, empty for precomputed layouts.
	Method string `json:"method,omitempty"`
}

// ByTopic returns the point for a topic id, when the map was built from
// keyword data and therefore carries topic ids.
func (r *Result) ByTopic(id int) (models.TopicPoint, bool) {
	for _, p := range r.Points {
		if p.TopicID == id {
			return p, true
		}
	}
	return models.TopicPoint{}, false
}

// Config holds topic map assembly configuration.
type Config struct {
	Method  string
	Palette []string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Method:  "umap",
		Palette: encode.GreenPalette,
	}
}

// Service builds topic maps over an immutable data context.
type Service struct {
	reducer reduce.Reducer
	scaler  *encode.SizeScaler
	palette []string
}

// NewService creates a topic map service. The reduction strategy is
// resolved once here, not per call.
func NewService(config Config) *Service {
	palette := config.Palette
	if len(palette) == 0 {
		palette = encode.GreenPalette
	}
	return &Service{
		reducer: reduce.Select(config.Method),
		scaler:  encode.NewSizeScaler(),
		palette: palette,
	}
}

// Build assembles the topic map, trying the precomputed layout first and
// falling back to the keyword-derived pipeline.
func (s *Service) Build(data *source.Context) (*Result, error) {
	if data.LayoutErr != nil {
		return nil, data.LayoutErr
	}
	if data.Layout != nil {
		return s.fromLayout(data.Layout), nil
	}
	return s.fromKeywords(data)
}

// fromLayout passes the precomputed positions through, coloring labels in
// row order. Rows of the layout file are documents, not topics, so the
// points carry no topic id.
func (s *Service) fromLayout(layout *source.Layout) *Result {
	labels := make([]string, len(layout.Points))
	for i, p := range layout.Points {
		labels[i] = p.Label
	}
	colors := encode.ColorMapWithPalette(labels, s.palette)

	defaultSize := (encode.SizeMin + encode.SizeMax) / 2
	points := make([]models.TopicPoint, len(layout.Points))
	for i, p := range layout.Points {
		size := defaultSize
		if layout.HasSize {
			size = p.Size
		}
		points[i] = models.TopicPoint{
			TopicID: -1,
			Label:   p.Label,
			Title:   p.Title,
			X:       p.X,
			Y:       p.Y,
			Z:       p.Z,
			Size:    size,
			Color:   colors[p.Label],
		}
	}
	return &Result{Points: points, Source: SourcePrecomputed}
}

// fromKeywords runs the matrix build and reduction pipeline.
func (s *Service) fromKeywords(data *source.Context) (*Result, error) {
	if len(data.TopicData) == 0 {
		return nil, ErrNoData
	}

	built := matrix.Build(data.TopicData)
	if built.Empty() {
		return nil, ErrNoData
	}

	coords, err := s.reducer.Reduce(built.X)
	if err != nil {
		return nil, fmt.Errorf("reduce topic matrix: %w", err)
	}

	sizes := s.scaler.Sizes(built.TopicIDs, data.Frequencies, data.Blogs, data.Labels)

	labels := make([]string, len(built.TopicIDs))
	for i, id := range built.TopicIDs {
		labels[i] = data.Label(strconv.Itoa(id))
	}
	colors := encode.ColorMapWithPalette(labels, s.palette)

	points := make([]models.TopicPoint, len(built.TopicIDs))
	for i, id := range built.TopicIDs {
		points[i] = models.TopicPoint{
			TopicID:     id,
			Label:       labels[i],
			X:           coords[i][0],
			Y:           coords[i][1],
			Z:           coords[i][2],
			Size:        sizes[i],
			Color:       colors[labels[i]],
			TopKeywords: built.TopKeywords[i],
		}
	}
	return &Result{Points: points, Source: SourceKeywords, Method: s.reducer.Name()}, nil
}
