package profile

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/scorer"
)

func setupTestDB(t *testing.T) *database.DB {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db
}

func TestGetMissing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := NewRepository(db).Get("alice")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetOrDefault(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	weights := scorer.DefaultWeights()
	p, err := NewRepository(db).GetOrDefault("alice", weights)
	if err != nil {
		t.Fatalf("failed to get default profile: %v", err)
	}
	if p.Weights != weights {
		t.Errorf("expected default weights %+v, got %+v", weights, p.Weights)
	}
	if p.Categories == nil || p.Authors == nil || p.Keywords == nil {
		t.Error("expected empty, non-nil collections")
	}
	if p.AdaptedAt != nil {
		t.Error("expected default profile to be unadapted")
	}
}

func TestSaveAndReload(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	adapted := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	want := &Profile{
		UserID: "alice",
		Preferences: scorer.Preferences{
			Categories: map[string]float64{"cs.AI": 1, "quant-ph": 0.5},
			Authors:    map[string]float64{"A. Turing": 3},
			Keywords:   []string{"quantum", "neural"},
			// stored verbatim, not renormalized
			Weights: scorer.FeatureWeights{Category: 0.6, Author: 0.3, Keyword: 0.2, Content: 0.1},
		},
		AdaptedAt: &adapted,
	}
	if err := repo.Save(want); err != nil {
		t.Fatalf("failed to save profile: %v", err)
	}

	got, err := repo.Get("alice")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if !reflect.DeepEqual(got.Preferences, want.Preferences) {
		t.Errorf("expected %+v, got %+v", want.Preferences, got.Preferences)
	}
	if got.AdaptedAt == nil || !got.AdaptedAt.Equal(adapted) {
		t.Errorf("expected adapted_at %v, got %v", adapted, got.AdaptedAt)
	}

	want.Keywords = nil
	want.Authors = nil
	if err := repo.Save(want); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}
	got, err = repo.Get("alice")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if len(got.Keywords) != 0 || len(got.Authors) != 0 {
		t.Errorf("expected cleared keywords and authors, got %v %v", got.Keywords, got.Authors)
	}
	if got.Categories["quant-ph"] != 0.5 {
		t.Errorf("expected categories preserved, got %v", got.Categories)
	}
}
