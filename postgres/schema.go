package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS graph_nodes (
    id         TEXT PRIMARY KEY,
    label      TEXT NOT NULL DEFAULT '',
    data       JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS graph_relationships (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    from_node_id TEXT NOT NULL REFERENCES graph_nodes(id) ON DELETE CASCADE,
    to_node_id   TEXT NOT NULL REFERENCES graph_nodes(id) ON DELETE CASCADE,
    direction    TEXT NOT NULL CHECK (direction IN ('AWAY', 'TOWARDS', 'NEUTRAL')),
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_graph_relationships_from ON graph_relationships(from_node_id);
CREATE INDEX IF NOT EXISTS idx_graph_relationships_to   ON graph_relationships(to_node_id);
`

// CreateSchema creates the graph_nodes and graph_relationships tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the graph_relationships and graph_nodes tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS graph_relationships, graph_nodes CASCADE;`)
	return err
}
