package scorer

import (
	"maps"
	"slices"
)

// Reasons attached to a Result, in the order the engine evaluates them.
const (
	ReasonCategory      = "Category match"
	ReasonAuthor        = "Author match"
	ReasonTitleKeyword  = "Title keyword match"
	ReasonContent       = "Content match"
	ReasonPreviousLiked = "Previously liked"
)

// Article is a candidate paper. Authors keep their feed order for display;
// scoring treats authors and categories as sets. The ID only matters to
// Rank, which needs it to tell articles apart.
type Article struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Authors    []string `json:"authors"`
	Categories []string `json:"categories"`
}

// FeatureWeights are the coefficients of the four scoring signals. Weights
// produced by AdaptWeights sum to 1; caller-supplied weights are used as
// given and are never normalized.
type FeatureWeights struct {
	Category float64 `json:"category" yaml:"category" validate:"finite,gte=0"`
	Author   float64 `json:"author" yaml:"author" validate:"finite,gte=0"`
	Keyword  float64 `json:"keyword" yaml:"keyword" validate:"finite,gte=0"`
	Content  float64 `json:"content" yaml:"content" validate:"finite,gte=0"`
}

// Sum returns the total of the four weights.
func (w FeatureWeights) Sum() float64 {
	return w.Category + w.Author + w.Keyword + w.Content
}

// Preferences is a reader's interest profile.
type Preferences struct {
	Categories map[string]float64 `json:"categories" validate:"dive,keys,required,endkeys,finite,gte=0"`
	Authors    map[string]float64 `json:"authors" validate:"dive,keys,required,endkeys,finite,gte=0"`
	Keywords   []string           `json:"keywords"`
	Weights    FeatureWeights     `json:"weights"`
}

// Clone returns a deep copy of p.
func (p Preferences) Clone() Preferences {
	return Preferences{
		Categories: maps.Clone(p.Categories),
		Authors:    maps.Clone(p.Authors),
		Keywords:   slices.Clone(p.Keywords),
		Weights:    p.Weights,
	}
}

// TermScore is the raw sub-score of one signal and what it added to the
// total before damping.
type TermScore struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Contribution float64 `json:"contribution"`
}

// Result is the outcome of scoring one article for one reader.
type Result struct {
	Score   float64     `json:"score"`
	Reasons []string    `json:"reasons"`
	Terms   []TermScore `json:"terms"`
}

// Counters aggregates the interactions that drive weight adaptation.
type Counters struct {
	CategoryClicks map[string]int `json:"category_clicks" validate:"dive,gte=0"`
	AuthorClicks   map[string]int `json:"author_clicks" validate:"dive,gte=0"`
	KeywordSuccess int            `json:"keyword_success" validate:"gte=0"`
	ContentSuccess int            `json:"content_success" validate:"gte=0"`
}

// Total is the number of interactions across all four signals.
func (c Counters) Total() int {
	total := c.KeywordSuccess + c.ContentSuccess
	for _, n := range c.CategoryClicks {
		total += n
	}
	for _, n := range c.AuthorClicks {
		total += n
	}
	return total
}
