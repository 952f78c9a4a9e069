// Package aggregate holds the stateless grouping rules shared across views.
package aggregate

import (
	"sort"

	"github.com/seedslab/seeds-analytics/pkg/models"
)

// OthersLabel is the synthetic category absorbing long-tail entries.
const OthersLabel = "Others"

// TopN groups (key, weight) pairs by key summing weights, sorts descending
// by summed weight, and returns the first n. The sort is stable over keys
// ordered by their last contributing pair, so ties resolve in favor of the
// key whose total was finalized earlier in the input.
func TopN(pairs []models.KeywordRank, n int) []models.KeywordRank {
	totals := make(map[string]float64, len(pairs))
	lastSeen := make(map[string]int, len(pairs))
	for i, p := range pairs {
		totals[p.Keyword] += p.Score
		lastSeen[p.Keyword] = i
	}

	order := make([]string, 0, len(totals))
	for key := range totals {
		order = append(order, key)
	}
	sort.Slice(order, func(i, j int) bool {
		return lastSeen[order[i]] < lastSeen[order[j]]
	})

	ranked := make([]models.KeywordRank, len(order))
	for i, key := range order {
		ranked[i] = models.KeywordRank{Keyword: key, Score: totals[key]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// BucketLongTail keeps categories counted more than once and folds the
// single-count tail into one "Others" entry, appended only when it is
// non-empty. Input order is preserved for the kept categories.
func BucketLongTail(counts []models.CategoryCount) []models.CategoryCount {
	var kept []models.CategoryCount
	var othersTotal float64
	for _, c := range counts {
		if c.Count > 1 {
			kept = append(kept, c)
		} else if c.Count == 1 {
			othersTotal += c.Count
		}
	}
	if othersTotal > 0 {
		kept = append(kept, models.CategoryCount{Name: OthersLabel, Count: othersTotal})
	}
	return kept
}

// CountByName tallies occurrences of each name in first-encounter order.
func CountByName(names []string) []models.CategoryCount {
	totals := make(map[string]float64, len(names))
	order := make([]string, 0, len(names))
	for _, name := range names {
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name]++
	}

	counts := make([]models.CategoryCount, len(order))
	for i, name := range order {
		counts[i] = models.CategoryCount{Name: name, Count: totals[name]}
	}
	// Most-counted first, ties by first encounter.
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// FilterYearRange retains frequency rows whose timestamp year falls inside
// the inclusive [startYear, endYear] range. Empty input yields empty output.
func FilterYearRange(rows []models.TopicFrequency, startYear, endYear int) []models.TopicFrequency {
	if len(rows) == 0 {
		return nil
	}

	var kept []models.TopicFrequency
	for _, row := range rows {
		year := row.Timestamp.Year()
		if year >= startYear && year <= endYear {
			kept = append(kept, row)
		}
	}
	return kept
}

// Years lists the distinct years present in the frequency table, sorted
// ascending, for year-filter options.
func Years(rows []models.TopicFrequency) []int {
	seen := make(map[int]struct{})
	for _, row := range rows {
		if !row.Timestamp.IsZero() {
			seen[row.Timestamp.Year()] = struct{}{}
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
