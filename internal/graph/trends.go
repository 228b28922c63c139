package graph

import (
	"sort"
	"time"
)

// crossListWeight is the activity credited to a category an article is only
// cross-listed in. Its primary (first) category gets a full point.
const crossListWeight = 0.5

// Trend summarises recent activity in one arXiv category.
type Trend struct {
	Category string
	// Count is the number of articles listing the category, Primary those
	// listing it first.
	Count   int
	Primary int
	// Views counts reader views of articles whose primary category this is.
	Views          int
	Affinity       float64
	Score          float64
	RecentArticles []string
}

type TrendAnalyzer struct {
	articles map[string]trendEntry
	views    map[string]int
	affinity map[string]float64
	now      func() time.Time
}

type trendEntry struct {
	categories []string
	timestamp  time.Time
}

func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{
		articles: make(map[string]trendEntry),
		views:    make(map[string]int),
		affinity: make(map[string]float64),
		now:      time.Now,
	}
}

// AddArticle registers an article. categories are in feed order, the
// primary category first.
func (ta *TrendAnalyzer) AddArticle(id string, categories []string, publishedAt time.Time) {
	ta.articles[id] = trendEntry{
		categories: distinctOrdered(categories),
		timestamp:  publishedAt,
	}
}

// AddView records that the reader opened the article. Views of articles
// never added are ignored.
func (ta *TrendAnalyzer) AddView(id string) {
	ta.views[id]++
}

// SetAffinity personalises the ranking with the reader's category weights.
func (ta *TrendAnalyzer) SetAffinity(categories map[string]float64) {
	ta.affinity = make(map[string]float64, len(categories))
	for c, w := range categories {
		if w > 0 {
			ta.affinity[c] = w
		}
	}
}

// GetTrends ranks categories by their activity within the last days, boosted
// by how recent their newest article is and by the reader's affinity.
// Activity counts primary listings fully and cross-listings at half, twice
// over for articles inside the window, plus one per reader view.
func (ta *TrendAnalyzer) GetTrends(days int, limit int) []Trend {
	now := ta.now()
	cutoff := now.AddDate(0, 0, -days)

	trends := make(map[string]*Trend)
	activity := make(map[string]float64)
	newest := make(map[string]time.Time)

	for id, entry := range ta.articles {
		recent := entry.timestamp.After(cutoff)
		for i, category := range entry.categories {
			tr, ok := trends[category]
			if !ok {
				tr = &Trend{Category: category, Affinity: ta.affinity[category]}
				trends[category] = tr
			}
			tr.Count++

			weight := crossListWeight
			if i == 0 {
				weight = 1
				tr.Primary++
				tr.Views += ta.views[id]
			}
			activity[category] += weight
			if recent {
				activity[category] += 2 * weight
				tr.RecentArticles = append(tr.RecentArticles, id)
			}

			if existing, ok := newest[category]; !ok || entry.timestamp.After(existing) {
				newest[category] = entry.timestamp
			}
		}
	}

	out := make([]Trend, 0, len(trends))
	for category, tr := range trends {
		recencyBoost := 1.0
		daysSince := now.Sub(newest[category]).Hours() / 24
		if daysSince < float64(days) {
			recencyBoost = 1.0 + (float64(days)-daysSince)/float64(days)
		}

		sort.Strings(tr.RecentArticles)
		tr.Score = (activity[category] + float64(tr.Views)) * recencyBoost * (1 + tr.Affinity)
		out = append(out, *tr)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Category < out[j].Category
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

func distinctOrdered(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
