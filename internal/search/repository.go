// Package search runs full text queries over article titles and abstracts.
package search

import (
	"strings"
	"time"

	"github.com/julienpequegnot/phynews/internal/database"
)

type SearchResult struct {
	ArxivID     string
	Title       string
	Category    string
	PublishedAt *time.Time
	Snippet     string
	Rank        float64
	Score       float64
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Search returns matches ordered by bm25 relevance. Score is the user's
// stored recommendation score, 0 when the article was never scored.
func (r *Repository) Search(userID, query string, limit int) ([]SearchResult, error) {
	if !r.db.FTS() {
		q, args := likeQuery(userID, query, limit, `ORDER BY a.published_at DESC, a.arxiv_id`)
		return r.scan(q, args...)
	}
	return r.search(`ORDER BY bm25(articles_fts)`, userID, query, limit)
}

// SearchWithScore orders matches by a blend of bm25 relevance and the
// user's recommendation score.
func (r *Repository) SearchWithScore(userID, query string, limit int) ([]SearchResult, error) {
	if !r.db.FTS() {
		q, args := likeQuery(userID, query, limit, `ORDER BY score DESC, a.published_at DESC, a.arxiv_id`)
		return r.scan(q, args...)
	}
	return r.search(`ORDER BY (COALESCE(sc.score, 0) * 0.3 - bm25(articles_fts) * 0.7) DESC`, userID, query, limit)
}

func (r *Repository) search(order, userID, query string, limit int) ([]SearchResult, error) {
	query = matchExpression(query)
	if query == "" {
		return nil, nil
	}

	return r.scan(`
		SELECT
			a.arxiv_id,
			a.title,
			COALESCE(c.tag, ''),
			a.published_at,
			snippet(articles_fts, -1, '<b>', '</b>', '...', 32) as snippet,
			bm25(articles_fts) as rank,
			COALESCE(sc.score, 0) as score
		FROM articles_fts
		JOIN articles a ON articles_fts.rowid = a.id
		LEFT JOIN categories c ON a.category_id = c.id
		LEFT JOIN scores sc ON a.id = sc.article_id AND sc.user_id = ?
		WHERE articles_fts MATCH ?
		`+order+`
		LIMIT ?
	`, userID, query, limit)
}

// likeQuery builds a substring search requiring every word in the title or
// abstract, used when the full text index is unavailable.
func likeQuery(userID, query string, limit int, order string) (string, []any) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return "", nil
	}

	args := []any{userID}
	conds := make([]string, len(words))
	for i, w := range words {
		pattern := "%" + likeEscaper.Replace(w) + "%"
		conds[i] = `(a.title LIKE ? ESCAPE '\' OR a.abstract LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern)
	}
	args = append(args, limit)

	return `
		SELECT
			a.arxiv_id,
			a.title,
			COALESCE(c.tag, ''),
			a.published_at,
			substr(COALESCE(a.abstract, ''), 1, 200) as snippet,
			0 as rank,
			COALESCE(sc.score, 0) as score
		FROM articles a
		LEFT JOIN categories c ON a.category_id = c.id
		LEFT JOIN scores sc ON a.id = sc.article_id AND sc.user_id = ?
		WHERE ` + strings.Join(conds, " AND ") + `
		` + order + `
		LIMIT ?
	`, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *Repository) scan(query string, args ...any) ([]SearchResult, error) {
	if query == "" {
		return nil, nil
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var sr SearchResult
		if err := rows.Scan(&sr.ArxivID, &sr.Title, &sr.Category, &sr.PublishedAt, &sr.Snippet, &sr.Rank, &sr.Score); err != nil {
			return nil, err
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

// matchExpression quotes each word so that user input such as "3d-qft" or
// "c++" is not parsed as FTS5 query syntax.
func matchExpression(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return strings.Join(words, " ")
}

// RebuildIndex repopulates the full text index. It is a no-op without one.
func (r *Repository) RebuildIndex() error {
	if !r.db.FTS() {
		return nil
	}
	_, err := r.db.Exec("DELETE FROM articles_fts")
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO articles_fts(rowid, title, abstract)
		SELECT id, title, COALESCE(abstract, '') FROM articles
	`)
	return err
}
