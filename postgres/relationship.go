package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/graphrel"
)

const relationshipColumns = `id, name, from_node_id, to_node_id, direction, created_at`

// CreateRelationship inserts a relationship between two existing nodes.
// Both endpoints are checked inside the same transaction as the insert.
// Returns ErrNodeNotFound if either endpoint is missing.
func (s *PGStore) CreateRelationship(ctx context.Context, req *graphrel.CreateRelRequest) (*graphrel.Relationship, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("graphrel: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var found int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(DISTINCT id) FROM graph_nodes WHERE id IN ($1, $2)`,
		req.FromID, req.ToID,
	).Scan(&found); err != nil {
		return nil, fmt.Errorf("graphrel: check endpoints: %w", err)
	}
	want := 2
	if req.FromID == req.ToID {
		want = 1
	}
	if found != want {
		return nil, graphrel.ErrNodeNotFound
	}

	rel, err := scanRelationship(tx.QueryRow(ctx,
		`INSERT INTO graph_relationships (id, name, from_node_id, to_node_id, direction)
		 VALUES ($1, $2, $3, $4, $5) RETURNING `+relationshipColumns,
		uuid.NewString(), req.Name, req.FromID, req.ToID, string(req.Direction),
	))
	if err != nil {
		return nil, fmt.Errorf("graphrel: insert relationship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("graphrel: commit: %w", err)
	}
	return rel, nil
}

// GetRelationship fetches a single relationship by its ID.
// Returns nil, nil if not found.
func (s *PGStore) GetRelationship(ctx context.Context, relID string) (*graphrel.Relationship, error) {
	rel, err := scanRelationship(s.db.QueryRow(ctx,
		`SELECT `+relationshipColumns+` FROM graph_relationships WHERE id = $1`, relID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("graphrel: get relationship: %w", err)
	}
	return rel, nil
}

// DeleteRelationship deletes a relationship by its ID.
// No error if it doesn't exist.
func (s *PGStore) DeleteRelationship(ctx context.Context, relID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM graph_relationships WHERE id = $1`, relID)
	if err != nil {
		return fmt.Errorf("graphrel: delete relationship: %w", err)
	}
	return nil
}

// ListRelationships returns all relationships, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListRelationships(ctx context.Context) ([]graphrel.Relationship, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+relationshipColumns+` FROM graph_relationships ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("graphrel: list relationships: %w", err)
	}
	defer rows.Close()

	rels := []graphrel.Relationship{}
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, fmt.Errorf("graphrel: scan relationship: %w", err)
		}
		rels = append(rels, *rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("graphrel: rows relationships: %w", err)
	}

	return rels, nil
}

func scanRelationship(row pgx.Row) (*graphrel.Relationship, error) {
	var (
		r   graphrel.Relationship
		dir string
	)
	if err := row.Scan(&r.ID, &r.Name, &r.FromID, &r.ToID, &dir, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Direction = graphrel.Direction(dir)
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}
