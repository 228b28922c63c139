package article

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/julienpequegnot/phynews/internal/category"
	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/feed"
)

func setupTestDB(t *testing.T) (*database.DB, *category.Category) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	cat, err := category.NewRepository(db).Follow("cs.AI", "https://export.arxiv.org/api/query?search_query=cat:cs.AI")
	if err != nil {
		t.Fatalf("failed to follow category: %v", err)
	}

	return db, cat
}

func fetched(id string, published time.Time) feed.FetchedArticle {
	return feed.FetchedArticle{
		ArxivID:     id,
		URL:         "http://arxiv.org/abs/" + id,
		Title:       "Paper " + id,
		Abstract:    "Abstract of " + id,
		Authors:     []string{"A. Turing", "E. Noether"},
		Categories:  []string{"cs.AI", "cs.LG"},
		PublishedAt: published,
	}
}

func TestAddAndGet(t *testing.T) {
	db, cat := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	added, err := repo.Add(cat.ID, fetched("2401.00001", time.Now()))
	if err != nil {
		t.Fatalf("failed to add article: %v", err)
	}
	if !added {
		t.Error("expected article to be added")
	}

	a, err := repo.Get("2401.00001")
	if err != nil {
		t.Fatalf("failed to get article: %v", err)
	}
	if !reflect.DeepEqual(a.Authors, []string{"A. Turing", "E. Noether"}) {
		t.Errorf("expected authors preserved in order, got %v", a.Authors)
	}
	if a.PrimaryCategory() != "cs.AI" {
		t.Errorf("expected primary category cs.AI, got %s", a.PrimaryCategory())
	}

	c := a.Candidate()
	if c.ID != "2401.00001" || len(c.Categories) != 2 {
		t.Errorf("unexpected candidate: %+v", c)
	}
}

func TestAddDuplicate(t *testing.T) {
	db, cat := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	repo.Add(cat.ID, fetched("2401.00001", time.Now()))

	added, err := repo.Add(cat.ID, fetched("2401.00001", time.Now()))
	if err != nil {
		t.Fatalf("expected no error for duplicate, got %v", err)
	}
	if added {
		t.Error("expected duplicate to be skipped")
	}

	exists, err := repo.Exists("2401.00001")
	if err != nil || !exists {
		t.Errorf("expected article to exist (err=%v)", err)
	}
}

func TestGetMissing(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	_, err := NewRepository(db).Get("0000.00000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	db, cat := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()
	repo.Add(cat.ID, fetched("2401.00001", now.Add(-48*time.Hour)))
	repo.Add(cat.ID, fetched("2401.00002", now))

	articles, err := repo.List(10, 0)
	if err != nil {
		t.Fatalf("failed to list articles: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].ArxivID != "2401.00002" {
		t.Errorf("expected newest first, got %s", articles[0].ArxivID)
	}
}

func TestListByCategories(t *testing.T) {
	db, cat := setupTestDB(t)
	defer db.Close()

	other, _ := category.NewRepository(db).Follow("hep-th", "u")

	repo := NewRepository(db)
	repo.Add(cat.ID, fetched("2401.00001", time.Now()))
	repo.Add(other.ID, fetched("2401.00002", time.Now()))

	articles, err := repo.ListByCategories([]string{"hep-th"}, 10)
	if err != nil {
		t.Fatalf("failed to list by category: %v", err)
	}
	if len(articles) != 1 || articles[0].ArxivID != "2401.00002" {
		t.Errorf("expected only the hep-th article, got %+v", articles)
	}
}
