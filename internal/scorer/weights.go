package scorer

import "math"

// Floors applied to adapted weights before renormalization.
const (
	MinCategoryWeight = 0.2
	MinAuthorWeight   = 0.2
	MinKeywordWeight  = 0.1
	MinContentWeight  = 0.1
)

// DefaultWeights are the starting weights of a new profile.
func DefaultWeights() FeatureWeights {
	return FeatureWeights{Category: 0.3, Author: 0.3, Keyword: 0.2, Content: 0.2}
}

// AdaptWeights recomputes the feature weights from interaction counters.
// Each signal's share of all interactions is raised to its floor, then the
// four values are divided by their sum. With no interactions p is returned
// unchanged. p itself is never modified.
func AdaptWeights(p Preferences, c Counters) (Preferences, error) {
	if err := validateInput(&c); err != nil {
		return p, err
	}

	categoryClicks := sumCounts(c.CategoryClicks)
	authorClicks := sumCounts(c.AuthorClicks)
	total := c.Total()
	if total == 0 {
		return p, nil
	}

	t := float64(total)
	w := FeatureWeights{
		Category: math.Max(MinCategoryWeight, float64(categoryClicks)/t),
		Author:   math.Max(MinAuthorWeight, float64(authorClicks)/t),
		Keyword:  math.Max(MinKeywordWeight, float64(c.KeywordSuccess)/t),
		Content:  math.Max(MinContentWeight, float64(c.ContentSuccess)/t),
	}

	sum := w.Sum()
	w.Category /= sum
	w.Author /= sum
	w.Keyword /= sum
	w.Content /= sum

	adapted := p.Clone()
	adapted.Weights = w
	return adapted, nil
}

func sumCounts(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
