package graph

import "time"

// Assemble merges raw per-file fragments into one valid DependencyGraph.
// It is a pure function of its input apart from the capture timestamp:
//
//  1. nodes are deduplicated by (name, kind), first occurrence wins;
//     occurrence order is the caller's file-scan order, which Assemble
//     treats as stable but externally determined;
//  2. edges survive only when both endpoints name a surviving node and
//     the edge is not a self-reference;
//  3. surviving edges are deduplicated by (from, to, kind), first
//     occurrence wins.
//
// commitSHA may be empty for working-tree scans.
func Assemble(frags []Fragment, commitSHA string) *DependencyGraph {
	g := &DependencyGraph{
		ScannedAt: time.Now().UTC(),
		CommitSHA: commitSHA,
	}

	seenNodes := make(map[string]bool)
	names := make(map[string]bool)
	for _, f := range frags {
		for _, n := range f.Nodes {
			if seenNodes[n.Key()] {
				continue
			}
			seenNodes[n.Key()] = true
			names[n.Name] = true
			g.Nodes = append(g.Nodes, n)
		}
	}

	seenEdges := make(map[string]bool)
	for _, f := range frags {
		for _, e := range f.Edges {
			if e.From == e.To {
				continue
			}
			if !names[e.From] || !names[e.To] {
				continue // unresolved endpoint: external or stdlib type
			}
			if seenEdges[e.Key()] {
				continue
			}
			seenEdges[e.Key()] = true
			g.Edges = append(g.Edges, e)
		}
	}

	return g
}
