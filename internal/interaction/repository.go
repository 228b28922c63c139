// Package interaction records what readers view and like, and turns that
// history into the counters that drive weight adaptation.
package interaction

import (
	"fmt"
	"time"

	"github.com/julienpequegnot/phynews/internal/article"
	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/lexical"
	"github.com/julienpequegnot/phynews/internal/scorer"
)

type Repository struct {
	db       *database.DB
	articles *article.Repository
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, articles: article.NewRepository(db)}
}

// RecordView logs that the user opened an article.
func (r *Repository) RecordView(userID, arxivID string) error {
	a, err := r.articles.Get(arxivID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`INSERT INTO article_views (user_id, article_id) VALUES (?, ?)`, userID, a.ID)
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

// Like marks an article as liked. Liking twice is a no-op.
func (r *Repository) Like(userID, arxivID string) error {
	a, err := r.articles.Get(arxivID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`INSERT INTO article_likes (user_id, article_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, userID, a.ID)
	if err != nil {
		return fmt.Errorf("failed to record like: %w", err)
	}
	return nil
}

// Unlike removes a like. It reports whether a like existed.
func (r *Repository) Unlike(userID, arxivID string) (bool, error) {
	result, err := r.db.Exec(`
		DELETE FROM article_likes
		WHERE user_id = ? AND article_id = (SELECT id FROM articles WHERE arxiv_id = ?)
	`, userID, arxivID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// LikedIDs returns the arXiv IDs the user has liked.
func (r *Repository) LikedIDs(userID string) (map[string]bool, error) {
	rows, err := r.db.Query(`
		SELECT a.arxiv_id FROM article_likes l JOIN articles a ON a.id = l.article_id
		WHERE l.user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	liked := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = true
	}
	return liked, rows.Err()
}

// Counters aggregates the user's interactions since the given time.
func (r *Repository) Counters(userID string, since time.Time, keywords []string) (scorer.Counters, error) {
	viewed, err := r.articles.ListViewedBy(userID, since, 0)
	if err != nil {
		return scorer.Counters{}, fmt.Errorf("failed to load views: %w", err)
	}
	liked, err := r.articles.ListLikedBy(userID, since)
	if err != nil {
		return scorer.Counters{}, fmt.Errorf("failed to load likes: %w", err)
	}
	return BuildCounters(viewed, liked, keywords), nil
}

// BuildCounters counts one category click per view (its primary category),
// one author click per author of each liked article, and a keyword or
// content success for each liked article whose title or abstract matches
// the keywords as strongly as the engine requires to report a match.
func BuildCounters(viewed, liked []article.Article, keywords []string) scorer.Counters {
	c := scorer.Counters{
		CategoryClicks: make(map[string]int),
		AuthorClicks:   make(map[string]int),
	}

	for i := range viewed {
		if category := viewed[i].PrimaryCategory(); category != "" {
			c.CategoryClicks[category]++
		}
	}

	for i := range liked {
		for _, author := range liked[i].Authors {
			c.AuthorClicks[author]++
		}
		if lexical.Similarity(liked[i].Title, keywords) > scorer.ReasonThreshold {
			c.KeywordSuccess++
		}
		if lexical.Similarity(liked[i].Abstract, keywords) > scorer.ReasonThreshold {
			c.ContentSuccess++
		}
	}

	return c
}
