package lang

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// readFixture reads a test fixture relative to the repository root. Tests
// run from internal/lang/, so fixtures live at ../../testdata/fixtures/.
func readFixture(t *testing.T, relPath string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("../../testdata/fixtures", relPath))
	require.NoError(t, err, "reading fixture %s", relPath)
	return data
}

// extractFixture scans a single fixture file and returns its fragment.
func extractFixture(t *testing.T, relPath string) graph.Fragment {
	t.Helper()
	s := NewScanner()
	t.Cleanup(func() { s.Close() })

	frags, diags, err := s.ScanAll(context.Background(), []File{
		{Path: relPath, Content: readFixture(t, relPath)},
	})
	require.NoError(t, err)
	require.Empty(t, diags, "fixture should scan cleanly")
	require.Len(t, frags, 1)
	return frags[0]
}

// findNode returns the first node with the given name, or nil.
func findNode(frag graph.Fragment, name string) *graph.GraphNode {
	for i := range frag.Nodes {
		if frag.Nodes[i].Name == name {
			return &frag.Nodes[i]
		}
	}
	return nil
}

// requireNode asserts a node exists with the given kind.
func requireNode(t *testing.T, frag graph.Fragment, name string, kind graph.NodeKind) graph.GraphNode {
	t.Helper()
	n := findNode(frag, name)
	require.NotNil(t, n, "node %s should be extracted", name)
	require.Equal(t, kind, n.Kind, "node %s kind", name)
	return *n
}

// hasEdge reports whether the fragment contains the exact edge.
func hasEdge(frag graph.Fragment, from, to string, kind graph.EdgeKind) bool {
	for _, e := range frag.Edges {
		if e.From == from && e.To == to && e.Kind == kind {
			return true
		}
	}
	return false
}

// requireEdge asserts an exact edge is present.
func requireEdge(t *testing.T, frag graph.Fragment, from, to string, kind graph.EdgeKind) {
	t.Helper()
	require.True(t, hasEdge(frag, from, to, kind), "expected edge %s -%s-> %s in %v", from, kind, to, frag.Edges)
}

// requireNoEdgeTo asserts no edge of any kind targets the given name.
func requireNoEdgeTo(t *testing.T, frag graph.Fragment, to string) {
	t.Helper()
	for _, e := range frag.Edges {
		require.NotEqual(t, to, e.To, "no edge should target %s, got %v", to, e)
	}
}
