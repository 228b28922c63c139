package scorer

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
)

func turingArticle() *Article {
	return &Article{
		ID:         "2401.00001",
		Title:      "Neural reasoning",
		Abstract:   "...",
		Authors:    []string{"A. Turing"},
		Categories: []string{"cs.AI"},
	}
}

func turingPreferences() *Preferences {
	return &Preferences{
		Categories: map[string]float64{"cs.AI": 0.8},
		Authors:    map[string]float64{"A. Turing": 1.0},
		Keywords:   []string{"neural", "reasoning"},
		Weights:    FeatureWeights{Category: 0.3, Author: 0.3, Keyword: 0.2, Content: 0.2},
	}
}

func TestScoreMatchingArticle(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Score(turingArticle(), turingPreferences(), false)
	if err != nil {
		t.Fatalf("failed to score: %v", err)
	}

	// category (1 + 0.8) / 2 = 0.9, author 1, title 1, content 0
	want := 0.9*0.3 + 1*0.3 + 1*0.2*0.5
	if math.Abs(result.Score-want) > 1e-9 {
		t.Errorf("expected score %f, got %f", want, result.Score)
	}
	if result.Score <= 0.3 || result.Score > 1 {
		t.Errorf("expected score in (0.3, 1], got %f", result.Score)
	}

	wantReasons := []string{ReasonCategory, ReasonAuthor, ReasonTitleKeyword}
	if !reflect.DeepEqual(result.Reasons, wantReasons) {
		t.Errorf("expected reasons %v, got %v", wantReasons, result.Reasons)
	}

	if len(result.Terms) != 4 {
		t.Fatalf("expected 4 term scores, got %d", len(result.Terms))
	}
	if math.Abs(result.Terms[0].Score-0.9) > 1e-9 {
		t.Errorf("expected category sub-score 0.9, got %f", result.Terms[0].Score)
	}
}

func TestScoreLikedIsHalved(t *testing.T) {
	engine := NewEngine()

	plain, err := engine.Score(turingArticle(), turingPreferences(), false)
	if err != nil {
		t.Fatalf("failed to score: %v", err)
	}
	liked, err := engine.Score(turingArticle(), turingPreferences(), true)
	if err != nil {
		t.Fatalf("failed to score liked: %v", err)
	}

	if liked.Score != plain.Score*0.5 {
		t.Errorf("expected liked score %f to be half of %f", liked.Score, plain.Score)
	}

	last := liked.Reasons[len(liked.Reasons)-1]
	if last != ReasonPreviousLiked {
		t.Errorf("expected %q last, got %v", ReasonPreviousLiked, liked.Reasons)
	}
	for _, r := range plain.Reasons {
		if r == ReasonPreviousLiked {
			t.Error("unexpected liked reason for an article that was not liked")
		}
	}
}

func TestScoreClampedAtOne(t *testing.T) {
	prefs := turingPreferences()
	prefs.Weights = FeatureWeights{Category: 2, Author: 2, Keyword: 2, Content: 2}

	result, err := NewEngine().Score(turingArticle(), prefs, false)
	if err != nil {
		t.Fatalf("failed to score: %v", err)
	}
	if result.Score != 1 {
		t.Errorf("expected score clamped to 1, got %f", result.Score)
	}
}

func TestScoreUnadaptedWeightsUsedAsGiven(t *testing.T) {
	prefs := turingPreferences()
	prefs.Weights = FeatureWeights{Category: 0.1}

	result, err := NewEngine().Score(turingArticle(), prefs, false)
	if err != nil {
		t.Fatalf("failed to score: %v", err)
	}
	if math.Abs(result.Score-0.09) > 1e-9 {
		t.Errorf("expected 0.9 * 0.1 = 0.09, got %f", result.Score)
	}
	if prefs.Weights.Sum() != 0.1 {
		t.Errorf("expected weights untouched, got %+v", prefs.Weights)
	}
}

func TestScoreEmptyProfile(t *testing.T) {
	prefs := &Preferences{Weights: DefaultWeights()}

	result, err := NewEngine().Score(turingArticle(), prefs, false)
	if err != nil {
		t.Fatalf("failed to score: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("expected 0 for empty profile, got %f", result.Score)
	}
	if len(result.Reasons) != 0 {
		t.Errorf("expected no reasons, got %v", result.Reasons)
	}
}

func TestScoreInvalidInput(t *testing.T) {
	engine := NewEngine()

	cases := map[string]func(a *Article, p *Preferences){
		"negative weight":   func(a *Article, p *Preferences) { p.Weights.Author = -0.1 },
		"NaN weight":        func(a *Article, p *Preferences) { p.Weights.Content = math.NaN() },
		"infinite weight":   func(a *Article, p *Preferences) { p.Weights.Keyword = math.Inf(1) },
		"negative category": func(a *Article, p *Preferences) { p.Categories["hep-th"] = -1 },
		"NaN author":        func(a *Article, p *Preferences) { p.Authors["E. Noether"] = math.NaN() },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			a, p := turingArticle(), turingPreferences()
			mutate(a, p)

			_, err := engine.Score(a, p, false)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if _, err := engine.Score(nil, turingPreferences(), false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil article, got %v", err)
	}
	if _, err := engine.Score(turingArticle(), nil, false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil preferences, got %v", err)
	}
}

func TestScoreWithoutID(t *testing.T) {
	a := turingArticle()
	a.ID = ""

	result, err := NewEngine().Score(a, turingPreferences(), false)
	if err != nil {
		t.Fatalf("failed to score article without id: %v", err)
	}
	if result.Score <= 0 {
		t.Errorf("expected positive score, got %f", result.Score)
	}
}

func TestScoreOverflowRejected(t *testing.T) {
	engine := NewEngine()

	cases := map[string]func(a *Article, p *Preferences){
		// Inf * 0 would otherwise turn into a NaN score.
		"category sum with zero weight": func(a *Article, p *Preferences) {
			a.Categories = []string{"a", "b"}
			p.Categories = map[string]float64{"a": math.MaxFloat64, "b": math.MaxFloat64}
			p.Weights.Category = 0
		},
		"author sum": func(a *Article, p *Preferences) {
			a.Authors = []string{"X", "Y"}
			p.Authors = map[string]float64{"X": math.MaxFloat64, "Y": math.MaxFloat64}
		},
		"weighted contribution": func(a *Article, p *Preferences) {
			p.Categories["cs.AI"] = 3
			p.Weights.Category = math.MaxFloat64
		},
		"total": func(a *Article, p *Preferences) {
			p.Weights.Category = math.MaxFloat64
			p.Weights.Author = math.MaxFloat64
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			a, p := turingArticle(), turingPreferences()
			mutate(a, p)

			result, err := engine.Score(a, p, false)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got score %v err %v", result.Score, err)
			}
		})
	}
}

func TestScoreBoundsAndDamping(t *testing.T) {
	engine := NewEngine()
	rng := rand.New(rand.NewPCG(1, 2))

	categories := []string{"cs.AI", "cs.LG", "quant-ph", "hep-th", "gr-qc"}
	authors := []string{"A. Turing", "E. Noether", "P. Dirac", "L. Meitner"}
	words := []string{"neural", "quantum", "gravity", "reasoning", "field", "lattice"}

	pick := func(pool []string) []string {
		var out []string
		for _, v := range pool {
			if rng.IntN(2) == 0 {
				out = append(out, v)
			}
		}
		return out
	}

	for i := 0; i < 200; i++ {
		prefs := &Preferences{
			Categories: map[string]float64{},
			Authors:    map[string]float64{},
			Keywords:   pick(words),
			Weights: FeatureWeights{
				Category: rng.Float64(),
				Author:   rng.Float64(),
				Keyword:  rng.Float64(),
				Content:  rng.Float64(),
			},
		}
		for _, c := range pick(categories) {
			prefs.Categories[c] = rng.Float64() * 3
		}
		for _, a := range pick(authors) {
			prefs.Authors[a] = rng.Float64() * 5
		}

		article := &Article{
			ID:         "x",
			Title:      joinWords(pick(words)),
			Abstract:   joinWords(pick(words)),
			Authors:    pick(authors),
			Categories: pick(categories),
		}

		plain, err := engine.Score(article, prefs, false)
		if err != nil {
			t.Fatalf("failed to score: %v", err)
		}
		liked, err := engine.Score(article, prefs, true)
		if err != nil {
			t.Fatalf("failed to score liked: %v", err)
		}

		if plain.Score < 0 || plain.Score > 1 || liked.Score < 0 || liked.Score > 1 {
			t.Fatalf("score out of range: plain=%f liked=%f", plain.Score, liked.Score)
		}
		if liked.Score > plain.Score {
			t.Fatalf("damping increased score: plain=%f liked=%f", plain.Score, liked.Score)
		}
	}
}

func TestCategoryScoreDividesByProfileSize(t *testing.T) {
	article := &Article{ID: "a", Categories: []string{"cs.AI"}}
	focused := &Preferences{Categories: map[string]float64{"cs.AI": 1}}
	broad := &Preferences{Categories: map[string]float64{"cs.AI": 1, "cs.LG": 1, "cs.CL": 1, "stat.ML": 1}}

	if got := CategoryScore(article, focused); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected focused category score 1, got %f", got)
	}
	// Jaccard 1/4, weighted 1/4
	if got := CategoryScore(article, broad); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("expected broad category score 0.25, got %f", got)
	}
}

func TestAuthorScoreNormalization(t *testing.T) {
	article := &Article{ID: "a", Authors: []string{"P. Dirac", "L. Meitner", "Unknown"}}

	prefs := &Preferences{Authors: map[string]float64{"P. Dirac": 4, "L. Meitner": 2}}
	if got := AuthorScore(article, prefs); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("expected (4+2)/4 = 1.5, got %f", got)
	}

	small := &Preferences{Authors: map[string]float64{"P. Dirac": 0.5}}
	if got := AuthorScore(article, small); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected denominator of at least 1, got %f", got)
	}

	if got := AuthorScore(article, &Preferences{}); got != 0 {
		t.Errorf("expected 0 without author weights, got %f", got)
	}
}

func joinWords(words []string) string {
	s := ""
	for i, w := range words {
		if i > 0 {
			s += " "
		}
		s += w
	}
	return s
}
