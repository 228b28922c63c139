package score

import (
	"database/sql"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/julienpequegnot/phynews/internal/database"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Score is a stored recommendation score of one article for one user.
type Score struct {
	UserID   string    `json:"user_id"`
	ArxivID  string    `json:"arxiv_id"`
	Title    string    `json:"title"`
	Score    float64   `json:"score"`
	Reasons  []string  `json:"reasons"`
	ScoredAt time.Time `json:"scored_at"`
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Entry is one score to store.
type Entry struct {
	ArxivID string
	Score   float64
	Reasons []string
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Replace swaps the user's stored scores for entries in one transaction.
// Entries naming unknown articles are skipped.
func (r *Repository) Replace(userID string, entries []Entry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM scores WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear scores: %w", err)
	}
	for _, e := range entries {
		if err := upsert(tx, userID, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func upsert(ex execer, userID string, e Entry) error {
	reasons := e.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	encoded, err := json.MarshalToString(reasons)
	if err != nil {
		return err
	}

	_, err = ex.Exec(`
		INSERT INTO scores (user_id, article_id, score, reasons, scored_at)
		SELECT ?, id, ?, ?, CURRENT_TIMESTAMP FROM articles WHERE arxiv_id = ?
		ON CONFLICT(user_id, article_id) DO UPDATE SET
			score = excluded.score,
			reasons = excluded.reasons,
			scored_at = CURRENT_TIMESTAMP
	`, userID, e.Score, encoded, e.ArxivID)
	if err != nil {
		return fmt.Errorf("failed to store score of %s: %w", e.ArxivID, err)
	}
	return nil
}

func (r *Repository) Get(userID, arxivID string) (*Score, error) {
	s := Score{UserID: userID}
	var reasons string
	err := r.db.QueryRow(`
		SELECT a.arxiv_id, a.title, s.score, s.reasons, s.scored_at
		FROM scores s JOIN articles a ON a.id = s.article_id
		WHERE s.user_id = ? AND a.arxiv_id = ?
	`, userID, arxivID).Scan(&s.ArxivID, &s.Title, &s.Score, &reasons, &s.ScoredAt)
	if err != nil {
		return nil, err
	}
	if err := json.UnmarshalFromString(reasons, &s.Reasons); err != nil {
		return nil, err
	}
	return &s, nil
}

// Top returns the user's best scored articles, highest first.
func (r *Repository) Top(userID string, limit int) ([]Score, error) {
	rows, err := r.db.Query(`
		SELECT a.arxiv_id, a.title, s.score, s.reasons, s.scored_at
		FROM scores s JOIN articles a ON a.id = s.article_id
		WHERE s.user_id = ?
		ORDER BY s.score DESC, a.arxiv_id
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		s := Score{UserID: userID}
		var reasons string
		if err := rows.Scan(&s.ArxivID, &s.Title, &s.Score, &reasons, &s.ScoredAt); err != nil {
			return nil, err
		}
		if err := json.UnmarshalFromString(reasons, &s.Reasons); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
