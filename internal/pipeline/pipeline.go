// Package pipeline runs a refresh round: fetch followed categories, rebuild
// a reader's profile from history, adapt its weights and store fresh
// recommendation scores.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julienpequegnot/phynews/internal/article"
	"github.com/julienpequegnot/phynews/internal/category"
	"github.com/julienpequegnot/phynews/internal/config"
	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/feed"
	"github.com/julienpequegnot/phynews/internal/interaction"
	"github.com/julienpequegnot/phynews/internal/logging"
	"github.com/julienpequegnot/phynews/internal/profile"
	"github.com/julienpequegnot/phynews/internal/score"
	"github.com/julienpequegnot/phynews/internal/scorer"
)

// Fetcher downloads the articles listed by one category feed.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL, category string) ([]feed.FetchedArticle, error)
}

type Pipeline struct {
	cfg          *config.Config
	categories   *category.Repository
	articles     *article.Repository
	interactions *interaction.Repository
	profiles     *profile.Repository
	scores       *score.Repository
	fetcher      Fetcher
	engine       *scorer.Engine
	now          func() time.Time
}

func New(db *database.DB, cfg *config.Config) *Pipeline {
	return NewWithFetcher(db, cfg, feed.NewFetcher(cfg.FetchTimeout(), cfg.Fetch.UserAgent))
}

func NewWithFetcher(db *database.DB, cfg *config.Config, fetcher Fetcher) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		categories:   category.NewRepository(db),
		articles:     article.NewRepository(db),
		interactions: interaction.NewRepository(db),
		profiles:     profile.NewRepository(db),
		scores:       score.NewRepository(db),
		fetcher:      fetcher,
		engine:       scorer.NewEngine(),
		now:          time.Now,
	}
}

type FetchReport struct {
	Categories int
	Fetched    int
	Added      int
	Failed     []string
}

// Fetch downloads every followed category concurrently and stores the
// articles not seen before. A failing category is logged and reported but
// does not stop the others.
func (p *Pipeline) Fetch(ctx context.Context) (FetchReport, error) {
	var report FetchReport

	cats, err := p.categories.List()
	if err != nil {
		return report, fmt.Errorf("failed to list categories: %w", err)
	}
	report.Categories = len(cats)

	results := make([][]feed.FetchedArticle, len(cats))
	errs := make([]error, len(cats))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Fetch.Concurrency)
	for i := range cats {
		g.Go(func() error {
			url := cats[i].FeedURL
			if url == "" {
				url = feed.QueryURL(p.cfg.Fetch.BaseURL, cats[i].Tag, p.cfg.Fetch.MaxResults)
			}
			results[i], errs[i] = p.fetcher.Fetch(gctx, url, cats[i].Tag)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return report, err
	}

	for i, c := range cats {
		if errs[i] != nil {
			logging.Warn().Err(errs[i]).Str("category", c.Tag).Msg("fetch failed")
			report.Failed = append(report.Failed, c.Tag)
			continue
		}
		for _, item := range results[i] {
			report.Fetched++
			added, err := p.articles.Add(c.ID, item)
			if err != nil {
				logging.Warn().Err(err).Str("arxiv_id", item.ArxivID).Msg("failed to store article")
				continue
			}
			if added {
				report.Added++
			}
		}
		if err := p.categories.UpdateLastFetched(c.ID); err != nil {
			return report, err
		}
		logging.Debug().Str("category", c.Tag).Int("items", len(results[i])).Msg("category fetched")
	}

	return report, nil
}

// RefreshProfile rebuilds the user's categories, authors and keywords from
// their history and stores the result. Weights are left as they are.
func (p *Pipeline) RefreshProfile(userID string) (*profile.Profile, error) {
	prof, err := p.profiles.GetOrDefault(userID, p.cfg.Weights)
	if err != nil {
		return nil, err
	}

	viewed, err := p.articles.ListViewedBy(userID, time.Time{}, p.cfg.Recommend.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load views: %w", err)
	}
	liked, err := p.articles.ListLikedBy(userID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}

	prof.Preferences = profile.FromHistory(prof.Preferences, viewed, liked, profile.BuildOptions{
		TopCategories: p.cfg.Recommend.TopCategories,
		TopAuthors:    p.cfg.Recommend.TopAuthors,
		KeywordLimit:  p.cfg.Recommend.KeywordLimit,
	})
	if err := p.profiles.Save(prof); err != nil {
		return nil, err
	}
	return prof, nil
}

// Adapt moves the user's weights towards the features their recent
// history engaged with. With no recorded engagement the profile is returned
// as stored and nothing is saved.
func (p *Pipeline) Adapt(userID string) (*profile.Profile, scorer.Counters, error) {
	prof, err := p.profiles.GetOrDefault(userID, p.cfg.Weights)
	if err != nil {
		return nil, scorer.Counters{}, err
	}

	now := p.now()
	counters, err := p.interactions.Counters(userID, p.cfg.AdaptSince(now), prof.Keywords)
	if err != nil {
		return nil, counters, err
	}
	if counters.Total() == 0 {
		logging.Debug().Str("user", userID).Msg("no engagement, weights kept")
		return prof, counters, nil
	}

	adapted, err := scorer.AdaptWeights(prof.Preferences, counters)
	if err != nil {
		return nil, counters, err
	}
	prof.Preferences = adapted
	prof.AdaptedAt = &now

	if err := p.profiles.Save(prof); err != nil {
		return nil, counters, err
	}
	logging.Info().Str("user", userID).
		Float64("category", adapted.Weights.Category).
		Float64("author", adapted.Weights.Author).
		Float64("keyword", adapted.Weights.Keyword).
		Float64("content", adapted.Weights.Content).
		Msg("weights adapted")
	return prof, counters, nil
}

// Recommend refreshes the user's profile, ranks the newest candidate
// articles and replaces the user's stored scores with the result.
// limit <= 0 uses the configured limit.
func (p *Pipeline) Recommend(ctx context.Context, userID string, limit int) ([]scorer.Ranked, error) {
	prof, err := p.RefreshProfile(userID)
	if err != nil {
		return nil, err
	}

	stored, err := p.articles.List(p.cfg.Recommend.Candidates, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	candidates := make([]scorer.Article, len(stored))
	for i := range stored {
		candidates[i] = stored[i].Candidate()
	}

	liked, err := p.interactions.LikedIDs(userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = p.cfg.Recommend.Limit
	}
	ranked, err := p.engine.Rank(ctx, candidates, &prof.Preferences, liked, scorer.RankOptions{
		Limit:           limit,
		KeepNonPositive: p.cfg.Recommend.KeepNonPositive,
		Workers:         p.cfg.Recommend.Workers,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]score.Entry, len(ranked))
	for i, r := range ranked {
		entries[i] = score.Entry{ArxivID: r.Article.ID, Score: r.Score, Reasons: r.Reasons}
	}
	if err := p.scores.Replace(userID, entries); err != nil {
		return nil, err
	}
	return ranked, nil
}

type Report struct {
	Fetch       FetchReport
	Weights     scorer.FeatureWeights
	Recommended int
	Took        time.Duration
}

// Run performs a full refresh round for one user.
func (p *Pipeline) Run(ctx context.Context, userID string) (Report, error) {
	started := p.now()
	var report Report

	fetched, err := p.Fetch(ctx)
	report.Fetch = fetched
	if err != nil {
		return report, err
	}
	logging.Info().Int("categories", fetched.Categories).Int("added", fetched.Added).
		Strs("failed", fetched.Failed).Msg("fetch complete")

	if _, err := p.RefreshProfile(userID); err != nil {
		return report, err
	}
	prof, _, err := p.Adapt(userID)
	if err != nil {
		return report, err
	}
	report.Weights = prof.Weights

	ranked, err := p.Recommend(ctx, userID, 0)
	if err != nil {
		return report, err
	}
	report.Recommended = len(ranked)
	report.Took = p.now().Sub(started)

	logging.Info().Str("user", userID).Int("recommended", report.Recommended).
		Dur("took", report.Took).Msg("refresh complete")
	return report, nil
}
