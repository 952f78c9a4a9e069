// Package explorer answers the topic-explorer queries: keyword rankings,
// author distributions, growth timeseries, and blog recommendations for a
// selected set of topics.
package explorer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/seedslab/seeds-analytics/internal/aggregate"
	"github.com/seedslab/seeds-analytics/internal/matrix"
	"github.com/seedslab/seeds-analytics/internal/source"
	"github.com/seedslab/seeds-analytics/pkg/models"
)

// IndependentAuthor replaces a blank organisation in recommendations.
const IndependentAuthor = "Independent Author"

// Service runs explorer queries over an immutable data context.
type Service struct {
	data *source.Context
}

// NewService creates an explorer over the loaded context.
func NewService(data *source.Context) *Service {
	return &Service{data: data}
}

// TopicNumbers resolves selected display labels back to topic ids.
func (s *Service) TopicNumbers(selectedLabels []string) []int {
	selected := make(map[string]struct{}, len(selectedLabels))
	for _, label := range selectedLabels {
		selected[label] = struct{}{}
	}

	var ids []int
	for idStr, label := range s.data.Labels {
		if _, ok := selected[label]; !ok {
			continue
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Labels lists all display labels for topic pickers, ordered by topic id so
// repeated calls and restarts produce the same picker list.
func (s *Service) Labels() []string {
	ids := make([]string, 0, len(s.data.Labels))
	for id := range s.data.Labels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, aErr := strconv.Atoi(ids[i])
		b, bErr := strconv.Atoi(ids[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		if (aErr == nil) != (bErr == nil) {
			return aErr == nil
		}
		return ids[i] < ids[j]
	})

	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = s.data.Labels[id]
	}
	return labels
}

// YearOptions lists the distinct years in the frequency table, ascending.
func (s *Service) YearOptions() []int {
	return aggregate.Years(s.data.Frequencies)
}

// TopKeywords ranks the merged keyword lists of the selected topics by
// summed score and returns the first n.
func (s *Service) TopKeywords(topicIDs []int, n int) []models.KeywordRank {
	selected := make(map[int]struct{}, len(topicIDs))
	for _, id := range topicIDs {
		selected[id] = struct{}{}
	}

	var pairs []models.KeywordRank
	for _, record := range s.data.TopicData {
		if record.TopicNumber == nil {
			continue
		}
		if _, ok := selected[*record.TopicNumber]; !ok {
			continue
		}
		for _, kw := range record.Keywords {
			pairs = append(pairs, models.KeywordRank{Keyword: kw.Term, Score: matrix.ParseScore(kw.Score)})
		}
	}
	return aggregate.TopN(pairs, n)
}

// Authors returns the author distribution for articles under the selected
// labels, with single-article authors folded into "Others".
func (s *Service) Authors(selectedLabels []string) []models.CategoryCount {
	selected := make(map[string]struct{}, len(selectedLabels))
	for _, label := range selectedLabels {
		selected[label] = struct{}{}
	}

	var authors []string
	for _, blog := range s.data.Blogs {
		if _, ok := selected[blog.TopicLabel]; ok {
			authors = append(authors, blog.Author)
		}
	}
	return aggregate.BucketLongTail(aggregate.CountByName(authors))
}

// Growth returns the labeled topic-growth timeseries for the selected topic
// ids, restricted to the inclusive year range.
func (s *Service) Growth(topicIDs []int, startYear, endYear int) []models.GrowthPoint {
	selected := make(map[int]struct{}, len(topicIDs))
	for _, id := range topicIDs {
		selected[id] = struct{}{}
	}

	var rows []models.TopicFrequency
	for _, f := range s.data.Frequencies {
		if _, ok := selected[f.Topic]; ok {
			rows = append(rows, f)
		}
	}
	rows = aggregate.FilterYearRange(rows, startYear, endYear)

	points := make([]models.GrowthPoint, len(rows))
	for i, row := range rows {
		points[i] = models.GrowthPoint{
			TopicLabel: s.data.Label(strconv.Itoa(row.Topic)),
			Timestamp:  row.Timestamp,
			Count:      row.Count,
		}
	}
	return points
}

// Recommendations returns up to limit articles under the selected labels as
// table rows. A blank organisation reads as an independent author.
func (s *Service) Recommendations(selectedLabels []string, limit int) []models.Recommendation {
	selected := make(map[string]struct{}, len(selectedLabels))
	for _, label := range selectedLabels {
		selected[label] = struct{}{}
	}

	var recs []models.Recommendation
	for _, blog := range s.data.Blogs {
		if _, ok := selected[blog.TopicLabel]; !ok {
			continue
		}

		org := strings.TrimSpace(blog.Organisation)
		if org == "" {
			org = IndependentAuthor
		}
		recs = append(recs, models.Recommendation{
			Title:        strings.TrimSpace(blog.Title),
			Author:       strings.TrimSpace(blog.Author),
			Organisation: org,
			Year:         strings.TrimSpace(blog.PublishedYear),
			URL:          strings.TrimSpace(blog.URL),
		})
		if limit > 0 && len(recs) == limit {
			break
		}
	}
	return recs
}
