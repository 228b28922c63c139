// Package scorer ranks arXiv articles for a reader. An Engine combines
// category affinity, author affinity and lexical similarity of title and
// abstract into one bounded score; AdaptWeights shifts the balance between
// those signals from observed interactions.
package scorer

import (
	"fmt"
	"math"

	"github.com/julienpequegnot/phynews/internal/graph"
	"github.com/julienpequegnot/phynews/internal/lexical"
)

// ReasonThreshold is the sub-score above which a term reports its reason.
const ReasonThreshold = 0.3

// LikedDamping multiplies the score of articles the reader already liked.
// Liked articles are demoted, not excluded.
const LikedDamping = 0.5

// titleKeywordShare scales the keyword weight applied to title similarity.
const titleKeywordShare = 0.5

// A term is one weighted signal of the scoring pipeline.
type term struct {
	name   string
	reason string
	weight func(FeatureWeights) float64
	score  func(*Article, *Preferences) float64
}

// Engine scores articles against reader preferences. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	terms []term
}

func NewEngine() *Engine {
	return &Engine{
		terms: []term{
			{
				name:   "category",
				reason: ReasonCategory,
				weight: func(w FeatureWeights) float64 { return w.Category },
				score:  CategoryScore,
			},
			{
				name:   "author",
				reason: ReasonAuthor,
				weight: func(w FeatureWeights) float64 { return w.Author },
				score:  AuthorScore,
			},
			{
				name:   "title",
				reason: ReasonTitleKeyword,
				weight: func(w FeatureWeights) float64 { return w.Keyword * titleKeywordShare },
				score: func(a *Article, p *Preferences) float64 {
					return lexical.Similarity(a.Title, p.Keywords)
				},
			},
			{
				name:   "content",
				reason: ReasonContent,
				weight: func(w FeatureWeights) float64 { return w.Content },
				score: func(a *Article, p *Preferences) float64 {
					return lexical.Similarity(a.Abstract, p.Keywords)
				},
			},
		},
	}
}

// Score rates one article for one reader. Every term is evaluated; reasons
// follow term order with "Previously liked" last. The score is capped at 1
// and never clamped from below.
func (e *Engine) Score(a *Article, p *Preferences, liked bool) (Result, error) {
	if err := ValidateArticle(a); err != nil {
		return Result{}, err
	}
	if err := ValidatePreferences(p); err != nil {
		return Result{}, err
	}
	return e.score(a, p, liked)
}

// score fails when finite inputs overflow into a non-finite sub-score or
// total.
func (e *Engine) score(a *Article, p *Preferences, liked bool) (Result, error) {
	result := Result{
		Reasons: []string{},
		Terms:   make([]TermScore, 0, len(e.terms)),
	}

	var total float64
	for _, t := range e.terms {
		sub := t.score(a, p)
		contribution := sub * t.weight(p.Weights)
		if !finite(sub) || !finite(contribution) {
			return Result{}, fmt.Errorf("%w: %s term overflows (score %v, contribution %v)", ErrInvalidInput, t.name, sub, contribution)
		}
		total += contribution

		result.Terms = append(result.Terms, TermScore{Name: t.name, Score: sub, Contribution: contribution})
		if sub > ReasonThreshold {
			result.Reasons = append(result.Reasons, t.reason)
		}
	}

	if liked {
		total *= LikedDamping
		result.Reasons = append(result.Reasons, ReasonPreviousLiked)
	}

	if !finite(total) {
		return Result{}, fmt.Errorf("%w: total score overflows", ErrInvalidInput)
	}
	result.Score = math.Min(total, 1)
	return result, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// CategoryScore averages the Jaccard overlap of the reader's categories with
// the article's and the reader's summed weights for the article categories
// divided by how many categories the reader has weights for. A reader with
// no category weights scores 0.
func CategoryScore(a *Article, p *Preferences) float64 {
	if len(p.Categories) == 0 {
		return 0
	}

	categories := distinct(a.Categories)
	similarity := graph.Jaccard(graph.Keys(p.Categories), categories)

	var weighted float64
	for _, c := range categories {
		weighted += p.Categories[c]
	}

	return (similarity + weighted/float64(len(p.Categories))) / 2
}

// AuthorScore sums the reader's affinity for each article author, divided by
// the reader's strongest affinity (at least 1).
func AuthorScore(a *Article, p *Preferences) float64 {
	maxWeight := 1.0
	for _, w := range p.Authors {
		maxWeight = math.Max(maxWeight, w)
	}

	var score float64
	for _, author := range distinct(a.Authors) {
		score += p.Authors[author]
	}

	return score / maxWeight
}

func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
