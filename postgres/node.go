package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/meikuraledutech/graphrel"
)

// AddNode inserts a single node.
// If node.ID is empty, a UUID is auto-generated.
// Returns the node ID (generated or provided).
func (s *PGStore) AddNode(ctx context.Context, node *graphrel.Node) (string, error) {
	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	data := node.Data
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO graph_nodes (id, label, data) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label, data = EXCLUDED.data`,
		node.ID, node.Label, data,
	)
	if err != nil {
		return "", fmt.Errorf("graphrel: insert node: %w", err)
	}

	return node.ID, nil
}

// GetNode fetches a single node by its ID.
// Returns nil, nil if not found.
func (s *PGStore) GetNode(ctx context.Context, nodeID string) (*graphrel.Node, error) {
	var n graphrel.Node
	err := s.db.QueryRow(ctx,
		`SELECT id, label, data FROM graph_nodes WHERE id = $1`, nodeID,
	).Scan(&n.ID, &n.Label, &n.Data)

	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("graphrel: get node: %w", err)
	}

	return &n, nil
}

// UpdateNode replaces the label and data of an existing node.
// Returns ErrNodeNotFound if the node doesn't exist.
func (s *PGStore) UpdateNode(ctx context.Context, node *graphrel.Node) error {
	data := node.Data
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	ct, err := s.db.Exec(ctx,
		`UPDATE graph_nodes SET label = $1, data = $2 WHERE id = $3`,
		node.Label, data, node.ID,
	)
	if err != nil {
		return fmt.Errorf("graphrel: update node: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return graphrel.ErrNodeNotFound
	}
	return nil
}

// DeleteNode deletes a node by its ID.
// Relationships touching it are cascade-deleted by the DB.
// No error if the node doesn't exist.
func (s *PGStore) DeleteNode(ctx context.Context, nodeID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM graph_nodes WHERE id = $1`, nodeID)
	if err != nil {
		return fmt.Errorf("graphrel: delete node: %w", err)
	}
	return nil
}

// ListNodes returns all nodes, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListNodes(ctx context.Context) ([]graphrel.Node, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, label, data FROM graph_nodes ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("graphrel: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []graphrel.Node{}
	for rows.Next() {
		var n graphrel.Node
		if err := rows.Scan(&n.ID, &n.Label, &n.Data); err != nil {
			return nil, fmt.Errorf("graphrel: scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("graphrel: rows nodes: %w", err)
	}

	return nodes, nil
}
