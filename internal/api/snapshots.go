package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/seedslab/seeds-analytics/internal/auth"
	"github.com/seedslab/seeds-analytics/internal/storage"
	"github.com/seedslab/seeds-analytics/internal/topicmap"
)

// SnapshotResponse describes one persisted layout snapshot.
type SnapshotResponse struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Method     string          `json:"method,omitempty"`
	CreatedAt  string          `json:"created_at"`
	PointCount int             `json:"point_count"`
	Points     []SnapshotPoint `json:"points,omitempty"`
}

// SnapshotPoint is one persisted topic position.
type SnapshotPoint struct {
	TopicID     int       `json:"topic_id"`
	Label       string    `json:"label"`
	Position    []float32 `json:"position"`
	Size        float64   `json:"size"`
	Color       string    `json:"color"`
	TopKeywords string    `json:"top_keywords,omitempty"`
}

// requireAdmin checks the role claim left by the auth middleware. The
// middleware only proves the token is valid; the role decides what it may do.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok || claims.Role != "admin" {
		respondError(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

// handleCreateSnapshot builds the current topic map and persists it.
func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if s.layouts == nil {
		respondError(w, http.StatusServiceUnavailable, "layout persistence is not configured")
		return
	}

	data, err := s.store.Get()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load source data")
		return
	}

	result, err := s.topicMap.Build(data)
	if err != nil {
		if errors.Is(err, topicmap.ErrNoData) {
			respondError(w, http.StatusConflict, "no topic map to snapshot")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to build topic map")
		return
	}

	snapshot := &storage.Snapshot{
		Source: result.Source,
		Method: result.Method,
	}
	points := make([]*storage.LayoutPoint, len(result.Points))
	for i, p := range result.Points {
		points[i] = &storage.LayoutPoint{
			TopicID:     p.TopicID,
			Label:       p.Label,
			Position:    pgvector.NewVector([]float32{float32(p.X), float32(p.Y), float32(p.Z)}),
			Size:        p.Size,
			Color:       p.Color,
			TopKeywords: p.TopKeywords,
		}
	}

	if err := s.layouts.CreateSnapshot(r.Context(), snapshot, points); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to persist snapshot")
		return
	}

	respondJSON(w, http.StatusCreated, SnapshotResponse{
		ID:         snapshot.ID.String(),
		Source:     snapshot.Source,
		Method:     snapshot.Method,
		CreatedAt:  snapshot.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		PointCount: len(points),
	})
}

// handleLatestSnapshot returns the most recent persisted layout.
func (s *Server) handleLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if s.layouts == nil {
		respondError(w, http.StatusServiceUnavailable, "layout persistence is not configured")
		return
	}

	snapshot, err := s.layouts.GetLatestSnapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	if snapshot == nil {
		respondError(w, http.StatusNotFound, "no snapshot stored")
		return
	}

	stored, err := s.layouts.GetPoints(r.Context(), snapshot.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load snapshot points")
		return
	}

	points := make([]SnapshotPoint, len(stored))
	for i, p := range stored {
		points[i] = SnapshotPoint{
			TopicID:     p.TopicID,
			Label:       p.Label,
			Position:    p.Position.Slice(),
			Size:        p.Size,
			Color:       p.Color,
			TopKeywords: p.TopKeywords,
		}
	}

	respondJSON(w, http.StatusOK, SnapshotResponse{
		ID:         snapshot.ID.String(),
		Source:     snapshot.Source,
		Method:     snapshot.Method,
		CreatedAt:  snapshot.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		PointCount: len(points),
		Points:     points,
	})
}

// handleDeleteSnapshot removes a persisted snapshot by id.
func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if s.layouts == nil {
		respondError(w, http.StatusServiceUnavailable, "layout persistence is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "snapshotID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid snapshot id")
		return
	}

	if err := s.layouts.DeleteSnapshot(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete snapshot")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
