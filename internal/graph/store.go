package graph

import (
	"context"
	"io"
)

// Store persists assembled snapshots keyed by revision so that later runs
// can diff against a stored baseline without re-scanning history.
// Implementations: KuzuStore (persistent), MemStore (testing, one-shot runs).
type Store interface {
	io.Closer

	// InitSchema prepares backing storage. Called once before any write.
	InitSchema(ctx context.Context) error

	// SaveSnapshot stores a snapshot under rev, replacing any existing
	// snapshot for the same revision.
	SaveSnapshot(ctx context.Context, rev string, g *DependencyGraph) error

	// LoadSnapshot returns the snapshot stored under rev, or nil when no
	// such snapshot exists.
	LoadSnapshot(ctx context.Context, rev string) (*DependencyGraph, error)

	// ListSnapshots returns the stored revision identifiers in save order.
	ListSnapshots(ctx context.Context) ([]string, error)
}
