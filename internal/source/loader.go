package source

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/seedslab/seeds-analytics/pkg/models"
)

// ErrMissingColumns reports a precomputed layout file that exists but lacks
// the required x, y, z columns. Distinct from a missing file, which simply
// triggers the keyword-derived fallback.
var ErrMissingColumns = errors.New("layout file must include columns x, y, z")

// Paths names the fixed set of input files for one session.
type Paths struct {
	Blogs       string `yaml:"blogs"`
	Topics      string `yaml:"topics"`
	TopicLabels string `yaml:"topic_labels"`
	TopicData   string `yaml:"topic_data"`
	Docs3D      string `yaml:"docs_3d"`
}

// DefaultPaths returns the conventional file names next to the binary.
func DefaultPaths() Paths {
	return Paths{
		Blogs:       "blogs.csv",
		Topics:      "topics.csv",
		TopicLabels: "topic_labels.json",
		TopicData:   "topic_data.json",
		Docs3D:      "docs_3d.csv",
	}
}

// LayoutPoint is one precomputed row of docs_3d.csv.
type LayoutPoint struct {
	X     float64
	Y     float64
	Z     float64
	Size  float64
	Label string
	Title string
}

// Layout holds the precomputed 3D positions, when the upstream pipeline
// exported them.
type Layout struct {
	Points  []LayoutPoint
	HasSize bool
}

// Loader reads the topic-modeling artifacts from disk.
type Loader struct {
	paths Paths
}

// NewLoader creates a loader over the given file paths.
func NewLoader(paths Paths) *Loader {
	return &Loader{paths: paths}
}

// LoadBlogs reads the per-document table. A missing file yields an empty
// slice: blog metadata is an optional input.
func (l *Loader) LoadBlogs() ([]models.BlogPost, error) {
	header, rows, err := readCSV(l.paths.Blogs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load blogs: %w", err)
	}

	col := columnIndex(header)
	blogs := make([]models.BlogPost, 0, len(rows))
	for _, row := range rows {
		blogs = append(blogs, models.BlogPost{
			Title:         cell(row, col, "title"),
			Author:        cell(row, col, "author"),
			Organisation:  cell(row, col, "organisation"),
			PublishedYear: cell(row, col, "published_year"),
			URL:           cell(row, col, "url"),
			Body:          cell(row, col, "body"),
			TopicLabel:    cell(row, col, "topic_label"),
		})
	}
	return blogs, nil
}

// LoadFrequencies reads the topic-over-time table. The count column is
// "Frequency" when present; otherwise the first numeric column that is
// neither the topic id nor the timestamp.
func (l *Loader) LoadFrequencies() ([]models.TopicFrequency, error) {
	header, rows, err := readCSV(l.paths.Topics)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load topic frequencies: %w", err)
	}

	col := columnIndex(header)
	topicIdx, ok := col["topic"]
	if !ok {
		return nil, fmt.Errorf("load topic frequencies: missing Topic column")
	}
	tsIdx, hasTS := col["timestamp"]
	countIdx := frequencyColumn(header, rows, topicIdx, tsIdx)

	freqs := make([]models.TopicFrequency, 0, len(rows))
	for _, row := range rows {
		topic, err := strconv.Atoi(strings.TrimSpace(row[topicIdx]))
		if err != nil {
			continue
		}
		f := models.TopicFrequency{Topic: topic}
		if hasTS && tsIdx < len(row) {
			f.Timestamp, _ = parseTimestamp(row[tsIdx])
		}
		if countIdx >= 0 && countIdx < len(row) {
			f.Count, _ = strconv.ParseFloat(strings.TrimSpace(row[countIdx]), 64)
		}
		freqs = append(freqs, f)
	}
	return freqs, nil
}

// LoadLabels reads the topic-label map (stringified topic id -> label).
func (l *Loader) LoadLabels() (map[string]string, error) {
	data, err := os.ReadFile(l.paths.TopicLabels)
	if err != nil {
		return nil, fmt.Errorf("load topic labels: %w", err)
	}
	labels := make(map[string]string)
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("load topic labels: %w", err)
	}
	return labels, nil
}

// LoadTopicData reads the per-topic keyword lists. A missing file is not
// fatal; callers fall back to a "no data" outcome.
func (l *Loader) LoadTopicData() ([]models.TopicRecord, error) {
	data, err := os.ReadFile(l.paths.TopicData)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load topic data: %w", err)
	}
	var records []models.TopicRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("load topic data: %w", err)
	}
	return records, nil
}

// LoadLayout reads the optional precomputed 3D layout. Returns (nil, nil)
// when the file is absent and ErrMissingColumns when it exists without the
// required coordinate columns.
func (l *Loader) LoadLayout() (*Layout, error) {
	header, rows, err := readCSV(l.paths.Docs3D)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load layout: %w", err)
	}

	col := columnIndex(header)
	// Column aliases carried over from the export side.
	if _, ok := col["label"]; !ok {
		if i, ok := col["topic"]; ok {
			col["label"] = i
		}
	}

	for _, required := range []string{"x", "y", "z"} {
		if _, ok := col[required]; !ok {
			return nil, ErrMissingColumns
		}
	}

	_, hasSize := col["size"]
	layout := &Layout{HasSize: hasSize, Points: make([]LayoutPoint, 0, len(rows))}
	for _, row := range rows {
		p := LayoutPoint{
			Label: cell(row, col, "label"),
			Title: cell(row, col, "title"),
		}
		p.X, _ = strconv.ParseFloat(strings.TrimSpace(cell(row, col, "x")), 64)
		p.Y, _ = strconv.ParseFloat(strings.TrimSpace(cell(row, col, "y")), 64)
		p.Z, _ = strconv.ParseFloat(strings.TrimSpace(cell(row, col, "z")), 64)
		if hasSize {
			p.Size, _ = strconv.ParseFloat(strings.TrimSpace(cell(row, col, "size")), 64)
		}
		layout.Points = append(layout.Points, p)
	}
	return layout, nil
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// columnIndex maps lower-cased header names to positions.
func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return col
}

func cell(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// frequencyColumn resolves the count column: "Frequency" by name, otherwise
// the first column other than the topic id and timestamp whose values parse
// as numbers.
func frequencyColumn(header []string, rows [][]string, topicIdx, tsIdx int) int {
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "frequency") {
			return i
		}
	}
	for i := range header {
		if i == topicIdx || i == tsIdx {
			continue
		}
		if len(rows) > 0 && i < len(rows[0]) {
			if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][i]), 64); err != nil {
				continue
			}
		}
		return i
	}
	return -1
}

var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006",
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
