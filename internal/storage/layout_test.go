package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

func newMockRepo(t *testing.T) (*PostgresLayoutRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresLayoutRepository(db), mock
}

func TestCreateSnapshot(t *testing.T) {
	repo, mock := newMockRepo(t)

	snapshot := &Snapshot{Source: "keywords", Method: "umap"}
	points := []*LayoutPoint{
		{TopicID: 0, Label: "Energy Efficiency", Position: pgvector.NewVector([]float32{0.1, 0.2, 0.3}), Size: 14, Color: "#2ecc40", TopKeywords: "energy, carbon"},
		{TopicID: 1, Label: "Cloud Carbon", Position: pgvector.NewVector([]float32{0.4, 0.5, 0.6}), Size: 22, Color: "#27ae60", TopKeywords: "cloud, compute"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO layout_snapshots").
		WithArgs(sqlmock.AnyArg(), "keywords", "umap", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prepared := mock.ExpectPrepare("INSERT INTO layout_points")
	for range points {
		prepared.ExpectExec().
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	if err := repo.CreateSnapshot(context.Background(), snapshot, points); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.ID == uuid.Nil {
		t.Error("expected snapshot id to be assigned")
	}
	if snapshot.CreatedAt.IsZero() {
		t.Error("expected created_at to be assigned")
	}
	for _, p := range points {
		if p.SnapshotID != snapshot.ID {
			t.Errorf("expected point snapshot id %s, got %s", snapshot.ID, p.SnapshotID)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetLatestSnapshot(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	created := time.Now()
	rows := sqlmock.NewRows([]string{"id", "source", "method", "created_at"}).
		AddRow(id, "precomputed", "", created)
	mock.ExpectQuery("SELECT id, source, method, created_at FROM layout_snapshots").
		WillReturnRows(rows)

	snapshot, err := repo.GetLatestSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot == nil || snapshot.ID != id || snapshot.Source != "precomputed" {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetLatestSnapshot_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, source, method, created_at FROM layout_snapshots").
		WillReturnRows(sqlmock.NewRows([]string{"id", "source", "method", "created_at"}))

	snapshot, err := repo.GetLatestSnapshot(context.Background())
	if err != nil {
		t.Fatalf("no rows must not be an error, got %v", err)
	}
	if snapshot != nil {
		t.Errorf("expected nil snapshot, got %+v", snapshot)
	}
}

func TestGetPoints(t *testing.T) {
	repo, mock := newMockRepo(t)

	snapshotID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "snapshot_id", "topic_id", "label", "position", "size", "color", "top_keywords"}).
		AddRow(uuid.New(), snapshotID, 0, "Energy Efficiency", "[0.1,0.2,0.3]", 14.0, "#2ecc40", "energy, carbon").
		AddRow(uuid.New(), snapshotID, 1, "Cloud Carbon", "[0.4,0.5,0.6]", 22.0, "#27ae60", "cloud, compute")
	mock.ExpectQuery("SELECT id, snapshot_id, topic_id, label, position, size, color, top_keywords FROM layout_points").
		WithArgs(snapshotID).
		WillReturnRows(rows)

	points, err := repo.GetPoints(context.Background(), snapshotID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].TopicID != 0 || points[0].Label != "Energy Efficiency" {
		t.Errorf("unexpected first point: %+v", points[0])
	}
	coords := points[1].Position.Slice()
	if len(coords) != 3 || coords[2] != 0.6 {
		t.Errorf("unexpected position: %v", coords)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteSnapshot(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM layout_points").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM layout_snapshots").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.DeleteSnapshot(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
