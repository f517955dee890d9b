//go:build cgo

package main

import "github.com/dusk-indust/archdrift/internal/graph"

// openStore returns a persistent KuzuDB-backed store when a path is given
// and an in-memory store otherwise.
func openStore(dbPath string) (graph.Store, error) {
	if dbPath == "" {
		return graph.NewMemStore(), nil
	}
	return graph.NewKuzuFileStore(dbPath)
}
