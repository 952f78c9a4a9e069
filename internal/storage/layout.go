// Package storage persists computed topic layouts so a dashboard restart
// can serve the last snapshot without re-running the reduction pipeline.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Snapshot groups the points of one computed layout.
type Snapshot struct {
	ID        uuid.UUID
	Source    string
	Method    string
	CreatedAt time.Time
}

// LayoutPoint is one persisted topic position with its visual encoding.
type LayoutPoint struct {
	ID          uuid.UUID
	SnapshotID  uuid.UUID
	TopicID     int
	Label       string
	Position    pgvector.Vector
	Size        float64
	Color       string
	TopKeywords string
}

// LayoutRepository defines the interface for layout persistence.
type LayoutRepository interface {
	CreateSnapshot(ctx context.Context, snapshot *Snapshot, points []*LayoutPoint) error
	GetLatestSnapshot(ctx context.Context) (*Snapshot, error)
	GetPoints(ctx context.Context, snapshotID uuid.UUID) ([]*LayoutPoint, error)
	DeleteSnapshot(ctx context.Context, id uuid.UUID) error
}

// PostgresLayoutRepository implements LayoutRepository using PostgreSQL with
// pgvector holding the 3D positions.
type PostgresLayoutRepository struct {
	db *sql.DB
}

// NewPostgresLayoutRepository creates a new PostgresLayoutRepository
func NewPostgresLayoutRepository(db *sql.DB) *PostgresLayoutRepository {
	return &PostgresLayoutRepository{db: db}
}

// CreateSnapshot inserts a snapshot and its points in one transaction.
func (r *PostgresLayoutRepository) CreateSnapshot(ctx context.Context, snapshot *Snapshot, points []*LayoutPoint) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO layout_snapshots (id, source, method, created_at)
		VALUES ($1, $2, $3, $4)
	`, snapshot.ID, snapshot.Source, snapshot.Method, snapshot.CreatedAt)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO layout_points (id, snapshot_id, topic_id, label, position, size, color, top_keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.SnapshotID = snapshot.ID

		_, err := stmt.ExecContext(ctx,
			p.ID,
			p.SnapshotID,
			p.TopicID,
			p.Label,
			p.Position,
			p.Size,
			p.Color,
			p.TopKeywords,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetLatestSnapshot retrieves the most recently created snapshot, or nil
// when none has been stored.
func (r *PostgresLayoutRepository) GetLatestSnapshot(ctx context.Context) (*Snapshot, error) {
	query := `
		SELECT id, source, method, created_at
		FROM layout_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`

	snapshot := &Snapshot{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&snapshot.ID,
		&snapshot.Source,
		&snapshot.Method,
		&snapshot.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// GetPoints retrieves all points of a snapshot ordered by topic id.
func (r *PostgresLayoutRepository) GetPoints(ctx context.Context, snapshotID uuid.UUID) ([]*LayoutPoint, error) {
	query := `
		SELECT id, snapshot_id, topic_id, label, position, size, color, top_keywords
		FROM layout_points
		WHERE snapshot_id = $1
		ORDER BY topic_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*LayoutPoint
	for rows.Next() {
		p := &LayoutPoint{}
		err := rows.Scan(
			&p.ID,
			&p.SnapshotID,
			&p.TopicID,
			&p.Label,
			&p.Position,
			&p.Size,
			&p.Color,
			&p.TopKeywords,
		)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// DeleteSnapshot removes a snapshot and its points.
func (r *PostgresLayoutRepository) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM layout_points WHERE snapshot_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM layout_snapshots WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}
