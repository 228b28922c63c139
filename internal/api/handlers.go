package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/julienpequegnot/phynews/internal/article"
	"github.com/julienpequegnot/phynews/internal/category"
	"github.com/julienpequegnot/phynews/internal/logging"
	"github.com/julienpequegnot/phynews/internal/profile"
	"github.com/julienpequegnot/phynews/internal/score"
	"github.com/julienpequegnot/phynews/internal/scorer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = validator.New(validator.WithRequiredStructEnabled())

const (
	defaultArticleLimit = 20
	maxLimit            = 100
)

type articleRequest struct {
	ArticleID string `json:"article_id" validate:"required,max=64"`
}

type userParam struct {
	User string `validate:"required,max=64,printascii"`
}

type articleJSON struct {
	ArxivID     string     `json:"arxiv_id"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Abstract    string     `json:"abstract"`
	Authors     []string   `json:"authors"`
	Categories  []string   `json:"categories"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func toArticleJSON(a *article.Article) articleJSON {
	return articleJSON{
		ArxivID:     a.ArxivID,
		URL:         a.URL,
		Title:       a.Title,
		Abstract:    a.Abstract,
		Authors:     a.Authors,
		Categories:  a.Categories,
		PublishedAt: a.PublishedAt,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStoredRecommendations returns the scores of the last ranking
// without recomputing them.
func (s *Server) handleStoredRecommendations(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(w, r)
	if !ok {
		return
	}
	limit, ok := limitFrom(w, r, s.cfg.Recommend.Limit)
	if !ok {
		return
	}

	stored, err := s.scores.Top(user, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if stored == nil {
		stored = []score.Score{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":            user,
		"recommendations": stored,
	})
}

// handleRecommend rebuilds the profile, ranks candidates and replaces the
// stored scores.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(w, r)
	if !ok {
		return
	}
	limit, ok := limitFrom(w, r, s.cfg.Recommend.Limit)
	if !ok {
		return
	}

	ranked, err := s.pipeline.Recommend(r.Context(), user, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if ranked == nil {
		ranked = []scorer.Ranked{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":            user,
		"recommendations": ranked,
	})
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(w, r)
	if !ok {
		return
	}
	prof, err := s.profiles.GetOrDefault(user, s.cfg.Weights)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(w, r)
	if !ok {
		return
	}
	req, ok := decodeArticleRequest(w, r)
	if !ok {
		return
	}
	if err := s.interactions.RecordView(user, req.ArticleID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user": user, "article_id": req.ArticleID, "status": "viewed"})
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(w, r)
	if !ok {
		return
	}
	req, ok := decodeArticleRequest(w, r)
	if !ok {
		return
	}
	if err := s.interactions.Like(user, req.ArticleID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user": user, "article_id": req.ArticleID, "status": "liked"})
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(w, r)
	if !ok {
		return
	}
	articleID := chi.URLParam(r, "articleID")
	removed, err := s.interactions.Unlike(user, articleID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("%s has not liked %s", user, articleID)))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(w, r)
	if !ok {
		return
	}
	prof, counters, err := s.pipeline.Adapt(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":     user,
		"weights":  prof.Weights,
		"counters": counters,
	})
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitFrom(w, r, defaultArticleLimit)
	if !ok {
		return
	}

	var tags []string
	if c := r.URL.Query().Get("category"); c != "" {
		tag, err := category.Normalize(c)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		tags = append(tags, tag)
	}

	articles, err := s.articles.ListByCategories(tags, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]articleJSON, len(articles))
	for i := range articles {
		out[i] = toArticleJSON(&articles[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": out})
}

func userFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := userParam{User: chi.URLParam(r, "user")}
	if err := validate.Struct(p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid user id"))
		return "", false
	}
	return p.User, true
}

// limitFrom reads the limit query parameter, capped at maxLimit.
func limitFrom(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("limit must be a positive integer"))
		return 0, false
	}
	return min(limit, maxLimit), true
}

func decodeArticleRequest(w http.ResponseWriter, r *http.Request) (articleRequest, bool) {
	var req articleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("article_id is required"))
		return req, false
	}
	return req, true
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, article.ErrNotFound), errors.Is(err, profile.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, scorer.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		logging.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}
