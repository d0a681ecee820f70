// Package memory provides an in-process graphrel.Store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meikuraledutech/graphrel"
)

// Store keeps nodes and relationships in maps guarded by a RWMutex.
// Listing preserves insertion order.
type Store struct {
	mu        sync.RWMutex
	nodes     map[string]graphrel.Node
	nodeOrder []string
	rels      map[string]graphrel.Relationship
	relOrder  []string
	now       func() time.Time
	log       *zap.Logger
}

var _ graphrel.Store = (*Store)(nil)

// New creates an empty Store.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		now: time.Now,
		log: logger.Named("memory"),
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.nodes = make(map[string]graphrel.Node)
	s.nodeOrder = nil
	s.rels = make(map[string]graphrel.Relationship)
	s.relOrder = nil
}

// CreateSchema is a no-op; the maps always exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	return nil
}

// DropSchema discards every node and relationship.
func (s *Store) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// AddNode stores a node, generating an ID when empty. An existing node with
// the same ID is overwritten.
func (s *Store) AddNode(ctx context.Context, node *graphrel.Node) (string, error) {
	if node.ID == "" {
		node.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[node.ID]; !exists {
		s.nodeOrder = append(s.nodeOrder, node.ID)
	}
	s.nodes[node.ID] = *node
	s.log.Debug("node stored", zap.String("id", node.ID), zap.String("label", node.Label))
	return node.ID, nil
}

// GetNode returns nil, nil if the node does not exist.
func (s *Store) GetNode(ctx context.Context, nodeID string) (*graphrel.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[nodeID]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// UpdateNode replaces an existing node. Returns graphrel.ErrNodeNotFound
// when there is nothing to replace.
func (s *Store) UpdateNode(ctx context.Context, node *graphrel.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[node.ID]; !ok {
		return graphrel.ErrNodeNotFound
	}
	s.nodes[node.ID] = *node
	return nil
}

// DeleteNode removes a node and every relationship touching it.
func (s *Store) DeleteNode(ctx context.Context, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[nodeID]; !ok {
		return nil
	}
	delete(s.nodes, nodeID)
	s.nodeOrder = without(s.nodeOrder, nodeID)

	for id, r := range s.rels {
		if r.FromID == nodeID || r.ToID == nodeID {
			delete(s.rels, id)
			s.relOrder = without(s.relOrder, id)
		}
	}
	return nil
}

// ListNodes returns an empty slice (not nil) when the store is empty.
func (s *Store) ListNodes(ctx context.Context) ([]graphrel.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]graphrel.Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes, nil
}

// CreateRelationship validates the request, checks both endpoints exist and
// stores a new relationship with a generated ID.
func (s *Store) CreateRelationship(ctx context.Context, req *graphrel.CreateRelRequest) (*graphrel.Relationship, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[req.FromID]; !ok {
		return nil, graphrel.ErrNodeNotFound
	}
	if _, ok := s.nodes[req.ToID]; !ok {
		return nil, graphrel.ErrNodeNotFound
	}

	rel := graphrel.Relationship{
		ID:        uuid.NewString(),
		Name:      req.Name,
		FromID:    req.FromID,
		ToID:      req.ToID,
		Direction: req.Direction,
		CreatedAt: s.now().UTC(),
	}
	s.rels[rel.ID] = rel
	s.relOrder = append(s.relOrder, rel.ID)

	s.log.Debug("relationship created",
		zap.String("id", rel.ID),
		zap.String("name", rel.Name),
		zap.String("from", rel.FromID),
		zap.String("to", rel.ToID),
		zap.Stringer("direction", rel.Direction),
	)
	return &rel, nil
}

// GetRelationship returns nil, nil if the relationship does not exist.
func (s *Store) GetRelationship(ctx context.Context, relID string) (*graphrel.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rels[relID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// DeleteRelationship is a no-op for unknown IDs.
func (s *Store) DeleteRelationship(ctx context.Context, relID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rels[relID]; ok {
		delete(s.rels, relID)
		s.relOrder = without(s.relOrder, relID)
	}
	return nil
}

// ListRelationships returns an empty slice (not nil) when there are none.
func (s *Store) ListRelationships(ctx context.Context) ([]graphrel.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rels := make([]graphrel.Relationship, 0, len(s.relOrder))
	for _, id := range s.relOrder {
		rels = append(rels, s.rels[id])
	}
	return rels, nil
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
