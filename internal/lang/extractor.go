package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// extractor turns one parsed file into a graph fragment. Implementations
// are stateless between files; the dispatcher reuses one instance per
// language.
type extractor interface {
	Extract(root *tree_sitter.Node, source []byte, filePath string) graph.Fragment
}

// lineOf returns the 1-based line of a node.
func lineOf(n *tree_sitter.Node) int {
	return int(n.StartPosition().Row) + 1
}

// appendEdges emits one edge per referenced name. Duplicates collapse
// during assembly, not here.
func appendEdges(edges *[]graph.GraphEdge, from string, refs []string, kind graph.EdgeKind) {
	for _, ref := range refs {
		if ref == "" || ref == from {
			continue
		}
		*edges = append(*edges, graph.GraphEdge{From: from, To: ref, Kind: kind})
	}
}
