package graphrel

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound         = errors.New("graphrel: node not found")
	ErrRelationshipNotFound = errors.New("graphrel: relationship not found")
	ErrInvalidRelationship  = errors.New("graphrel: invalid relationship")
)

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRelationship, reason)
}

// Store defines the contract for persisting nodes and relationships.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Nodes
	AddNode(ctx context.Context, node *Node) (string, error)
	GetNode(ctx context.Context, nodeID string) (*Node, error)
	UpdateNode(ctx context.Context, node *Node) error
	DeleteNode(ctx context.Context, nodeID string) error
	ListNodes(ctx context.Context) ([]Node, error)

	// Relationships
	CreateRelationship(ctx context.Context, req *CreateRelRequest) (*Relationship, error)
	GetRelationship(ctx context.Context, relID string) (*Relationship, error)
	DeleteRelationship(ctx context.Context, relID string) error
	ListRelationships(ctx context.Context) ([]Relationship, error)
}
