package graph

import "time"

// --- Enums ---

// NodeKind classifies declared types in the dependency graph.
type NodeKind string

const (
	NodeKindClass     NodeKind = "class"
	NodeKindInterface NodeKind = "interface"
	NodeKindProtocol  NodeKind = "protocol"
	NodeKindEnum      NodeKind = "enum"
	NodeKindAlias     NodeKind = "type-alias"
)

// EdgeKind classifies structural relationships between declared types.
type EdgeKind string

const (
	EdgeKindExtends      EdgeKind = "extends"
	EdgeKindImplements   EdgeKind = "implements"
	EdgeKindFieldType    EdgeKind = "field-type"
	EdgeKindMethodParam  EdgeKind = "method-param"
	EdgeKindMethodReturn EdgeKind = "method-return"
	EdgeKindImport       EdgeKind = "import"
)

// --- Models ---

// GraphNode is a single declared type. Name is the identifier as written,
// unqualified; File is relative to the scan root; Line is 1-based.
type GraphNode struct {
	Name string   `json:"name"`
	Kind NodeKind `json:"kind"`
	File string   `json:"file"`
	Line int      `json:"line"`
}

// Key is the node's identity for dedup and diff purposes: (name, kind).
// Two same-kind declarations sharing a name collapse to the first one
// scanned; a class and an interface sharing a name stay distinct.
func (n GraphNode) Key() string {
	return n.Name + "\x00" + string(n.Kind)
}

// GraphEdge is a directed, typed reference between two node names. The
// endpoints are names, not resolved declarations; assembly drops edges
// whose endpoints do not both name a node in the same graph.
type GraphEdge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// Key is the edge's identity: (from, to, kind).
func (e GraphEdge) Key() string {
	return e.From + "\x00" + e.To + "\x00" + string(e.Kind)
}

// Fragment is the raw extraction result for one source file, prior to
// assembly. Nodes and edges are in syntax-tree traversal order.
type Fragment struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

// DependencyGraph is an immutable snapshot of a scanned file set.
type DependencyGraph struct {
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
	ScannedAt time.Time   `json:"scannedAt"`
	CommitSHA string      `json:"commitSha,omitempty"`
}

// Equal reports whether two graphs are identical, including timestamps.
// Ordering is significant: assembly is deterministic for a fixed file-scan
// order, so equal inputs produce equal orderings.
func (g *DependencyGraph) Equal(other *DependencyGraph) bool {
	if g == nil || other == nil {
		return g == other
	}
	if len(g.Nodes) != len(other.Nodes) || len(g.Edges) != len(other.Edges) {
		return false
	}
	if !g.ScannedAt.Equal(other.ScannedAt) || g.CommitSHA != other.CommitSHA {
		return false
	}
	for i := range g.Nodes {
		if g.Nodes[i] != other.Nodes[i] {
			return false
		}
	}
	for i := range g.Edges {
		if g.Edges[i] != other.Edges[i] {
			return false
		}
	}
	return true
}

// GraphDiff is the symmetric difference of two snapshots. The four
// collections are disjoint; a kind change on an edge appears as one
// removed edge of the old kind and one added edge of the new kind.
type GraphDiff struct {
	AddedNodes   []GraphNode `json:"addedNodes"`
	RemovedNodes []GraphNode `json:"removedNodes"`
	AddedEdges   []GraphEdge `json:"addedEdges"`
	RemovedEdges []GraphEdge `json:"removedEdges"`
}

// Empty reports whether the diff contains no changes at all.
func (d *GraphDiff) Empty() bool {
	return len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0
}

// GraphStats summarizes an assembled graph for status output.
type GraphStats struct {
	NodeCount int            `json:"nodeCount"`
	EdgeCount int            `json:"edgeCount"`
	ByKind    map[string]int `json:"byKind,omitempty"`
}

// Stats computes node/edge counts broken down by node kind.
func (g *DependencyGraph) Stats() GraphStats {
	s := GraphStats{
		NodeCount: len(g.Nodes),
		EdgeCount: len(g.Edges),
		ByKind:    make(map[string]int),
	}
	for _, n := range g.Nodes {
		s.ByKind[string(n.Kind)]++
	}
	return s
}
