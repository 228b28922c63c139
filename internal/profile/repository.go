// Package profile persists reader preferences and rebuilds them from the
// reader's viewing and liking history.
package profile

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/scorer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotFound = errors.New("profile not found")

type Profile struct {
	UserID string `json:"user_id"`
	scorer.Preferences
	AdaptedAt *time.Time `json:"adapted_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(userID string) (*Profile, error) {
	p := Profile{UserID: userID}
	var categories, authors, keywords string
	err := r.db.QueryRow(`
		SELECT categories, authors, keywords, weight_category, weight_author, weight_keyword, weight_content,
		       adapted_at, updated_at
		FROM preferences WHERE user_id = ?
	`, userID).Scan(&categories, &authors, &keywords,
		&p.Weights.Category, &p.Weights.Author, &p.Weights.Keyword, &p.Weights.Content,
		&p.AdaptedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, userID)
		}
		return nil, err
	}

	if err := json.UnmarshalFromString(categories, &p.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	if err := json.UnmarshalFromString(authors, &p.Authors); err != nil {
		return nil, fmt.Errorf("failed to decode authors: %w", err)
	}
	if err := json.UnmarshalFromString(keywords, &p.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}
	return &p, nil
}

// GetOrDefault loads the user's profile, or returns an empty one carrying
// the given starting weights.
func (r *Repository) GetOrDefault(userID string, weights scorer.FeatureWeights) (*Profile, error) {
	p, err := r.Get(userID)
	if errors.Is(err, ErrNotFound) {
		return &Profile{
			UserID: userID,
			Preferences: scorer.Preferences{
				Categories: map[string]float64{},
				Authors:    map[string]float64{},
				Keywords:   []string{},
				Weights:    weights,
			},
		}, nil
	}
	return p, err
}

// Save stores the profile as given. Weights are written verbatim.
func (r *Repository) Save(p *Profile) error {
	categories, err := json.MarshalToString(nonNilMap(p.Categories))
	if err != nil {
		return err
	}
	authors, err := json.MarshalToString(nonNilMap(p.Authors))
	if err != nil {
		return err
	}
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, err := json.MarshalToString(keywords)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO preferences (user_id, categories, authors, keywords,
			weight_category, weight_author, weight_keyword, weight_content, adapted_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			categories = excluded.categories,
			authors = excluded.authors,
			keywords = excluded.keywords,
			weight_category = excluded.weight_category,
			weight_author = excluded.weight_author,
			weight_keyword = excluded.weight_keyword,
			weight_content = excluded.weight_content,
			adapted_at = excluded.adapted_at,
			updated_at = CURRENT_TIMESTAMP
	`, p.UserID, categories, authors, keywordsJSON,
		p.Weights.Category, p.Weights.Author, p.Weights.Keyword, p.Weights.Content, p.AdaptedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func nonNilMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
