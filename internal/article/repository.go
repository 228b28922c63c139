// Package article stores fetched arXiv papers.
package article

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/feed"
	"github.com/julienpequegnot/phynews/internal/scorer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotFound = errors.New("article not found")

// sqliteTime matches the layout of CURRENT_TIMESTAMP so created_at columns
// compare correctly as text.
const sqliteTime = "2006-01-02 15:04:05"

type Article struct {
	ID          int64
	ArxivID     string
	CategoryID  *int64
	URL         string
	Title       string
	Abstract    string
	Authors     []string
	Categories  []string
	PublishedAt *time.Time
	FetchedAt   time.Time
}

// Candidate converts the stored article into the scorer's input.
func (a *Article) Candidate() scorer.Article {
	return scorer.Article{
		ID:         a.ArxivID,
		Title:      a.Title,
		Abstract:   a.Abstract,
		Authors:    a.Authors,
		Categories: a.Categories,
	}
}

// PrimaryCategory is the first listed category, or "" if there is none.
func (a *Article) PrimaryCategory() string {
	if len(a.Categories) == 0 {
		return ""
	}
	return a.Categories[0]
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a fetched article. It reports false without error when an
// article with the same arXiv ID already exists.
func (r *Repository) Add(categoryID int64, f feed.FetchedArticle) (bool, error) {
	authors, err := json.Marshal(nonNil(f.Authors))
	if err != nil {
		return false, err
	}
	categories, err := json.Marshal(nonNil(f.Categories))
	if err != nil {
		return false, err
	}

	result, err := r.db.Exec(`
		INSERT INTO articles (arxiv_id, category_id, url, title, abstract, authors, categories, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(arxiv_id) DO NOTHING
	`, f.ArxivID, categoryID, f.URL, f.Title, f.Abstract, string(authors), string(categories), f.PublishedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) Exists(arxivID string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM articles WHERE arxiv_id = ?`, arxivID).Scan(&count)
	return count > 0, err
}

const selectColumns = `SELECT id, arxiv_id, category_id, COALESCE(url, ''), title, COALESCE(abstract, ''),
	authors, categories, published_at, fetched_at FROM articles`

func (r *Repository) Get(arxivID string) (*Article, error) {
	a, err := scanArticle(r.db.QueryRow(selectColumns+` WHERE arxiv_id = ?`, arxivID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, arxivID)
		}
		return nil, err
	}
	return a, nil
}

// List returns articles newest first.
func (r *Repository) List(limit, offset int) ([]Article, error) {
	return r.query(selectColumns+` ORDER BY published_at DESC, arxiv_id LIMIT ? OFFSET ?`, limit, offset)
}

// ListByCategories returns the newest articles whose primary (fetched)
// category is one of tags.
func (r *Repository) ListByCategories(tags []string, limit int) ([]Article, error) {
	if len(tags) == 0 {
		return r.List(limit, 0)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
	args := make([]any, 0, len(tags)+1)
	for _, tag := range tags {
		args = append(args, tag)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`%s
		WHERE category_id IN (SELECT id FROM categories WHERE tag IN (%s))
		ORDER BY published_at DESC, arxiv_id
		LIMIT ?`, selectColumns, placeholders)
	return r.query(query, args...)
}

// ListViewedBy returns one entry per view the user recorded since the
// given time, most recent first. limit <= 0 means no limit.
func (r *Repository) ListViewedBy(userID string, since time.Time, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.query(`SELECT a.id, a.arxiv_id, a.category_id, COALESCE(a.url, ''), a.title, COALESCE(a.abstract, ''),
		a.authors, a.categories, a.published_at, a.fetched_at
		FROM article_views v JOIN articles a ON a.id = v.article_id
		WHERE v.user_id = ? AND v.created_at >= ?
		ORDER BY v.created_at DESC, v.id DESC
		LIMIT ?`, userID, since.UTC().Format(sqliteTime), limit)
}

// ListLikedBy returns the articles the user liked since the given time,
// most recent first.
func (r *Repository) ListLikedBy(userID string, since time.Time) ([]Article, error) {
	return r.query(`SELECT a.id, a.arxiv_id, a.category_id, COALESCE(a.url, ''), a.title, COALESCE(a.abstract, ''),
		a.authors, a.categories, a.published_at, a.fetched_at
		FROM article_likes l JOIN articles a ON a.id = l.article_id
		WHERE l.user_id = ? AND l.created_at >= ?
		ORDER BY l.created_at DESC, l.id DESC`, userID, since.UTC().Format(sqliteTime))
}

func (r *Repository) query(query string, args ...any) ([]Article, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*Article, error) {
	var a Article
	var categoryID sql.NullInt64
	var authors, categories string
	if err := row.Scan(&a.ID, &a.ArxivID, &categoryID, &a.URL, &a.Title, &a.Abstract,
		&authors, &categories, &a.PublishedAt, &a.FetchedAt); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		a.CategoryID = &categoryID.Int64
	}
	if err := json.UnmarshalFromString(authors, &a.Authors); err != nil {
		return nil, fmt.Errorf("failed to decode authors of %s: %w", a.ArxivID, err)
	}
	if err := json.UnmarshalFromString(categories, &a.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories of %s: %w", a.ArxivID, err)
	}
	return &a, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
