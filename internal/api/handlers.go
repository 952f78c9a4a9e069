package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/seedslab/seeds-analytics/internal/explorer"
	"github.com/seedslab/seeds-analytics/internal/source"
	"github.com/seedslab/seeds-analytics/internal/topicmap"
	"github.com/seedslab/seeds-analytics/pkg/models"
)

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	token, err := s.auth.Login(req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleTopicMap serves the 3D topic map. Structural emptiness is an
// informational empty result; a malformed layout file is a user-visible
// "cannot render" error.
func (s *Server) handleTopicMap(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Get()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load source data")
		return
	}

	result, err := s.topicMap.Build(data)
	if err != nil {
		switch {
		case errors.Is(err, topicmap.ErrNoData):
			respondJSON(w, http.StatusOK, topicmap.Result{
				Points: []models.TopicPoint{},
				Source: "none",
			})
		case errors.Is(err, source.ErrMissingColumns):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to build topic map")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.explorer(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"labels": svc.Labels()})
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.explorer(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string][]int{"years": svc.YearOptions()})
}

func (s *Server) handleTopKeywords(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.explorer(w)
	if !ok {
		return
	}
	labels := queryLabels(r)
	if len(labels) == 0 {
		respondError(w, http.StatusBadRequest, "at least one topic label is required")
		return
	}

	limit := queryInt(r, "limit", 10)
	ranked := svc.TopKeywords(svc.TopicNumbers(labels), limit)
	respondJSON(w, http.StatusOK, map[string][]models.KeywordRank{"keywords": ranked})
}

func (s *Server) handleAuthors(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.explorer(w)
	if !ok {
		return
	}
	labels := queryLabels(r)
	if len(labels) == 0 {
		respondError(w, http.StatusBadRequest, "at least one topic label is required")
		return
	}

	respondJSON(w, http.StatusOK, map[string][]models.CategoryCount{"authors": svc.Authors(labels)})
}

func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.explorer(w)
	if !ok {
		return
	}
	labels := queryLabels(r)
	if len(labels) == 0 {
		respondError(w, http.StatusBadRequest, "at least one topic label is required")
		return
	}

	years := svc.YearOptions()
	startYear := queryInt(r, "start_year", firstOr(years, 0))
	endYear := queryInt(r, "end_year", lastOr(years, 9999))

	points := svc.Growth(svc.TopicNumbers(labels), startYear, endYear)
	respondJSON(w, http.StatusOK, map[string][]models.GrowthPoint{"growth": points})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.explorer(w)
	if !ok {
		return
	}
	labels := queryLabels(r)
	if len(labels) == 0 {
		respondError(w, http.StatusBadRequest, "at least one topic label is required")
		return
	}

	limit := queryInt(r, "limit", 10)
	respondJSON(w, http.StatusOK, map[string][]models.Recommendation{
		"recommendations": svc.Recommendations(labels, limit),
	})
}

func (s *Server) handleWordCloud(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.explorer(w)
	if !ok {
		return
	}
	labels := queryLabels(r)
	if len(labels) == 0 {
		respondError(w, http.StatusBadRequest, "at least one topic label is required")
		return
	}

	limit := queryInt(r, "limit", 100)
	respondJSON(w, http.StatusOK, map[string][]models.CategoryCount{
		"words": svc.WordCloud(labels, limit),
	})
}

// explorer builds the query service over the loaded context, answering the
// request with an error when the one-time load failed.
func (s *Server) explorer(w http.ResponseWriter) (*explorer.Service, bool) {
	data, err := s.store.Get()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load source data")
		return nil, false
	}
	return explorer.NewService(data), true
}

// queryLabels parses the comma-separated labels parameter.
func queryLabels(r *http.Request) []string {
	raw := r.URL.Query().Get("labels")
	if raw == "" {
		return nil
	}

	var labels []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func firstOr(values []int, fallback int) int {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}

func lastOr(values []int, fallback int) int {
	if len(values) == 0 {
		return fallback
	}
	return values[len(values)-1]
}
