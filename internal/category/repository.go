// Package category stores the arXiv categories a reader follows.
package category

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/julienpequegnot/phynews/internal/database"
)

var ErrNotFound = errors.New("category not found")

// tagPattern matches arXiv category tags such as cs.AI, quant-ph,
// astro-ph.GA or physics.class-ph.
var tagPattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)?(\.[A-Za-z]+(-[a-z]+)?)?$`)

// aliases maps the short names used on the site to arXiv tags.
var aliases = map[string]string{
	"hep":      "hep-th",
	"nucl":     "nucl-th",
	"class-ph": "physics.class-ph",
	"astro":    "astro-ph",
}

// Normalize resolves aliases and validates an arXiv category tag.
func Normalize(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if resolved, ok := aliases[strings.ToLower(tag)]; ok {
		tag = resolved
	}
	if !tagPattern.MatchString(tag) {
		return "", fmt.Errorf("invalid arXiv category: %q", tag)
	}
	return tag, nil
}

type Category struct {
	ID          int64
	Tag         string
	FeedURL     string
	LastFetched *time.Time
	Active      bool
	CreatedAt   time.Time
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Follow adds the category or reactivates it if it was unfollowed.
func (r *Repository) Follow(tag, feedURL string) (*Category, error) {
	_, err := r.db.Exec(`
		INSERT INTO categories (tag, feed_url, active) VALUES (?, ?, TRUE)
		ON CONFLICT(tag) DO UPDATE SET feed_url = excluded.feed_url, active = TRUE
	`, tag, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to follow category: %w", err)
	}
	return r.Get(tag)
}

func (r *Repository) Unfollow(tag string) error {
	result, err := r.db.Exec(`UPDATE categories SET active = FALSE WHERE tag = ?`, tag)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, tag)
	}
	return nil
}

func (r *Repository) Get(tag string) (*Category, error) {
	var c Category
	err := r.db.QueryRow(
		`SELECT id, tag, feed_url, last_fetched, active, created_at FROM categories WHERE tag = ?`, tag,
	).Scan(&c.ID, &c.Tag, &c.FeedURL, &c.LastFetched, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, tag)
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) List() ([]Category, error) {
	rows, err := r.db.Query(`SELECT id, tag, feed_url, last_fetched, active, created_at FROM categories WHERE active = TRUE ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Tag, &c.FeedURL, &c.LastFetched, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *Repository) UpdateLastFetched(id int64) error {
	_, err := r.db.Exec(`UPDATE categories SET last_fetched = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
