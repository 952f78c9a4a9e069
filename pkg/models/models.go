package models

import (
	"encoding/json"
	"time"
)

// BlogPost represents one analyzed article from the blog corpus
type BlogPost struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Organisation  string `json:"organisation"`
	PublishedYear string `json:"published_year"`
	URL           string `json:"url"`
	Body          string `json:"-"`
	TopicLabel    string `json:"topic_label"`
}

// TopicFrequency is one row of the topic-over-time table
type TopicFrequency struct {
	Topic     int       `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Count     float64   `json:"count"`
}

// Keyword is a (term, score) pair in upstream relevance order. The score is
// kept as decoded; upstream files carry numbers, numeric strings, and the
// occasional junk value, and coercion is the matrix builder's job.
type Keyword struct {
	Term  string `json:"term"`
	Score any    `json:"score"`
}

// UnmarshalJSON accepts the upstream pair form ["term", score].
func (k *Keyword) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) > 0 {
		if term, ok := pair[0].(string); ok {
			k.Term = term
		}
	}
	if len(pair) > 1 {
		k.Score = pair[1]
	}
	return nil
}

// TopicRecord is one precomputed topic with its weighted keyword list
type TopicRecord struct {
	TopicNumber *int      `json:"topic_number"`
	Keywords    []Keyword `json:"keywords"`
}

// TopicPoint is one bubble of the 3D topic map
type TopicPoint struct {
	TopicID     int     `json:"topic_id"`
	Label       string  `json:"label"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	Size        float64 `json:"size"`
	Color       string  `json:"color"`
	TopKeywords string  `json:"top_keywords,omitempty"`
	Title       string  `json:"title,omitempty"`
}

// KeywordRank is one entry of a top-N keyword ranking
type KeywordRank struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// CategoryCount is one slice of a categorical distribution (e.g. authors)
type CategoryCount struct {
	Name  string  `json:"name"`
	Count float64 `json:"count"`
}

// GrowthPoint is one point of a topic-growth timeseries
type GrowthPoint struct {
	TopicLabel string    `json:"topic_label"`
	Timestamp  time.Time `json:"timestamp"`
	Count      float64   `json:"count"`
}

// Recommendation is one row of the blog recommendation table
type Recommendation struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Organisation string `json:"organisation"`
	Year         string `json:"year"`
	URL          string `json:"url"`
}
