//go:build !cgo

package main

import (
	"fmt"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// The KuzuDB driver needs CGO; builds without it only get the in-memory
// store.
func openStore(dbPath string) (graph.Store, error) {
	if dbPath != "" {
		return nil, fmt.Errorf("persistent snapshot store requires a cgo build")
	}
	return graph.NewMemStore(), nil
}
