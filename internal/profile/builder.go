package profile

import (
	"sort"

	"github.com/julienpequegnot/phynews/internal/article"
	"github.com/julienpequegnot/phynews/internal/graph"
	"github.com/julienpequegnot/phynews/internal/scorer"
)

type BuildOptions struct {
	TopCategories int
	TopAuthors    int
	KeywordLimit  int
}

// FromHistory rebuilds the category, author and keyword parts of base from
// a reader's views and likes. Category weights are view counts relative to
// the most viewed category; author weights are like counts. Keywords are the
// most frequent words of viewed and liked titles. Weights are carried over
// untouched. Without any history base is returned unchanged.
func FromHistory(base scorer.Preferences, viewed, liked []article.Article, opts BuildOptions) scorer.Preferences {
	if len(viewed) == 0 && len(liked) == 0 {
		return base
	}

	out := base.Clone()

	categoryCounts := make(map[string]int)
	for i := range viewed {
		if c := viewed[i].PrimaryCategory(); c != "" {
			categoryCounts[c]++
		}
	}
	out.Categories = make(map[string]float64)
	top := topCounts(categoryCounts, opts.TopCategories)
	if len(top) > 0 {
		highest := float64(categoryCounts[top[0]])
		for _, c := range top {
			out.Categories[c] = float64(categoryCounts[c]) / highest
		}
	}

	authorCounts := make(map[string]int)
	for i := range liked {
		for _, a := range liked[i].Authors {
			authorCounts[a]++
		}
	}
	out.Authors = make(map[string]float64)
	for _, a := range topCounts(authorCounts, opts.TopAuthors) {
		out.Authors[a] = float64(authorCounts[a])
	}

	titles := make([]string, 0, len(viewed)+len(liked))
	for i := range viewed {
		titles = append(titles, viewed[i].Title)
	}
	for i := range liked {
		titles = append(titles, liked[i].Title)
	}
	out.Keywords = []string{}
	for _, k := range graph.TopKeywords(titles, opts.KeywordLimit) {
		out.Keywords = append(out.Keywords, k.Word)
	}

	return out
}

// topCounts returns the keys with the highest counts, ties alphabetical.
func topCounts(counts map[string]int, limit int) []string {
	keys := graph.Keys(counts)
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
