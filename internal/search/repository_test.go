package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julienpequegnot/phynews/internal/article"
	"github.com/julienpequegnot/phynews/internal/category"
	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/feed"
	"github.com/julienpequegnot/phynews/internal/score"
)

func setupTestDB(t *testing.T) *database.DB {
	tmpDir := t.TempDir()
	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	cat, _ := category.NewRepository(db).Follow("quant-ph", "")

	articles := article.NewRepository(db)
	articles.Add(cat.ID, feed.FetchedArticle{ArxivID: "2401.00001", Title: "Quantum error correction with surface codes", Abstract: "We study logical qubits protected by surface codes.", PublishedAt: time.Now()})
	articles.Add(cat.ID, feed.FetchedArticle{ArxivID: "2401.00002", Title: "Entanglement in many body systems", Abstract: "Area laws and quantum entanglement entropy.", PublishedAt: time.Now()})
	articles.Add(cat.ID, feed.FetchedArticle{ArxivID: "2401.00003", Title: "Dark matter halos", Abstract: "Simulations of galactic halo formation.", PublishedAt: time.Now()})

	return db
}

func TestSearchByQuery(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	results, err := repo.Search("alice", "quantum", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("expected 2 results for 'quantum', got %d", len(results))
	}
	for _, r := range results {
		if r.Category != "quant-ph" {
			t.Errorf("expected category quant-ph, got %q", r.Category)
		}
	}
}

func TestSearchNoResults(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	results, err := repo.Search("alice", "superconductivity", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("expected no results for 'superconductivity', got %d", len(results))
	}
}

func TestSearchQuotesSyntax(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	if _, err := repo.Search("alice", `surface-codes "AND`, 10); err != nil {
		t.Fatalf("expected operators in user input to be quoted, got %v", err)
	}
	results, err := repo.Search("alice", "   ", 10)
	if err != nil || results != nil {
		t.Errorf("expected empty query to return nothing, got %v %v", results, err)
	}
}

func TestSearchWithSnippet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	results, err := repo.Search("alice", "qubits", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}

	if len(results) == 0 {
		t.Fatal("expected results")
	}

	if results[0].Snippet == "" {
		t.Error("expected snippet to be populated")
	}
}

func TestSearchWithScore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	score.NewRepository(db).Replace("alice", []score.Entry{{ArxivID: "2401.00002", Score: 1, Reasons: []string{"Category match"}}})

	repo := NewRepository(db)
	results, err := repo.SearchWithScore("alice", "quantum", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ArxivID != "2401.00002" || results[0].Score != 1 {
		t.Errorf("expected scored article first, got %+v", results[0])
	}

	results, _ = repo.SearchWithScore("bob", "quantum", 10)
	for _, r := range results {
		if r.Score != 0 {
			t.Errorf("expected no scores for bob, got %+v", r)
		}
	}
}

func TestRebuildIndex(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	if err := repo.RebuildIndex(); err != nil {
		t.Fatalf("failed to rebuild index: %v", err)
	}

	results, err := repo.Search("alice", "halos", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(results) != 1 || results[0].ArxivID != "2401.00003" {
		t.Errorf("expected 1 result after rebuild, got %+v", results)
	}
}
