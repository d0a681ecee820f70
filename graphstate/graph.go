// Package graphstate holds the host application's view of the graph and
// applies the events emitted by the create-relationship control.
package graphstate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/meikuraledutech/graphrel"
	"github.com/meikuraledutech/graphrel/connect"
)

// Graph is the host-owned graph state. Reads are safe from any goroutine;
// writes go through Apply, normally from a single Run loop.
type Graph struct {
	mu        sync.RWMutex
	nodes     map[string]graphrel.Node
	nodeOrder []string
	rels      []graphrel.Relationship
	relIndex  map[string]int
	selection Selection
	addBox    bool
	notice    string

	notifier *Notifier
	log      *zap.Logger
}

// New creates an empty Graph.
func New(logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		nodes:    make(map[string]graphrel.Node),
		relIndex: make(map[string]int),
		notifier: NewNotifier(),
		log:      logger.Named("graphstate"),
	}
}

// Load replaces the graph contents, e.g. with a snapshot from the store.
func (g *Graph) Load(nodes []graphrel.Node, rels []graphrel.Relationship) {
	g.mu.Lock()
	g.nodes = make(map[string]graphrel.Node, len(nodes))
	g.nodeOrder = g.nodeOrder[:0]
	for _, n := range nodes {
		if _, ok := g.nodes[n.ID]; !ok {
			g.nodeOrder = append(g.nodeOrder, n.ID)
		}
		g.nodes[n.ID] = n
	}
	g.rels = nil
	g.relIndex = make(map[string]int, len(rels))
	for _, r := range rels {
		g.upsertLocked(r)
	}
	g.mu.Unlock()

	g.notifier.Broadcast()
}

// Notifier returns the change notifier.
func (g *Graph) Notifier() *Notifier {
	return g.notifier
}

// Apply folds one control event into the state.
func (g *Graph) Apply(ev connect.Event) {
	g.mu.Lock()
	switch e := ev.(type) {
	case connect.RelationshipCreated:
		g.upsertLocked(e.Relationship)
	case connect.ResetRequested:
		g.selection.Reset()
	case connect.Hidden:
		g.addBox = false
	case connect.NoticeChanged:
		g.notice = e.Message
	default:
		g.mu.Unlock()
		g.log.Warn("ignoring unknown event", zap.Any("event", ev))
		return
	}
	g.mu.Unlock()

	g.notifier.Broadcast()
}

// Emit makes Graph a connect.Sink that applies events synchronously.
func (g *Graph) Emit(ev connect.Event) {
	g.Apply(ev)
}

// Run applies events from ch until ctx is done or ch is closed.
func (g *Graph) Run(ctx context.Context, ch <-chan connect.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			g.Apply(ev)
		}
	}
}

// UpdateRelationship merges rel into the graph, replacing an existing
// relationship with the same ID in place.
func (g *Graph) UpdateRelationship(rel graphrel.Relationship) {
	g.mu.Lock()
	g.upsertLocked(rel)
	g.mu.Unlock()

	g.notifier.Broadcast()
}

func (g *Graph) upsertLocked(rel graphrel.Relationship) {
	// Without an ID there is nothing to merge on.
	if rel.ID == "" {
		g.rels = append(g.rels, rel)
		return
	}
	if i, ok := g.relIndex[rel.ID]; ok {
		g.rels[i] = rel
		return
	}
	g.relIndex[rel.ID] = len(g.rels)
	g.rels = append(g.rels, rel)
	g.log.Debug("relationship merged", zap.String("id", rel.ID), zap.String("name", rel.Name))
}

// SelectNode adds nodeID to the pending selection.
func (g *Graph) SelectNode(nodeID string) {
	g.mu.Lock()
	g.selection.Select(nodeID)
	g.mu.Unlock()

	g.notifier.Broadcast()
}

// OpenAddBox marks the control as open and returns the endpoints it should
// be constructed with.
func (g *Graph) OpenAddBox() connect.Endpoints {
	g.mu.Lock()
	g.addBox = true
	ep := g.selection.Endpoints()
	g.mu.Unlock()

	g.notifier.Broadcast()
	return ep
}

// AddBoxOpen reports whether the control is showing.
func (g *Graph) AddBoxOpen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.addBox
}

// Selection returns the pending endpoints.
func (g *Graph) Selection() connect.Endpoints {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.selection.Endpoints()
}

// Notice returns the error notice, or "".
func (g *Graph) Notice() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.notice
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (graphrel.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns the nodes in load order.
func (g *Graph) Nodes() []graphrel.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]graphrel.Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Relationships returns the relationships in merge order.
func (g *Graph) Relationships() []graphrel.Relationship {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]graphrel.Relationship(nil), g.rels...)
}
