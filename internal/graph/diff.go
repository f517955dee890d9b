package graph

// Diff computes the symmetric difference of two snapshots. Nodes compare
// by (name, kind) and edges by (from, to, kind), the same identity keys
// assembly dedupes on. An edge whose kind changed between snapshots is
// reported as one removed edge of the old kind plus one added edge of the
// new kind, never as a "changed" edge.
//
// Output ordering follows the owning snapshot's ordering: added
// collections iterate `after`, removed collections iterate `before`.
func Diff(before, after *DependencyGraph) *GraphDiff {
	d := &GraphDiff{}

	beforeNodes := make(map[string]bool, len(before.Nodes))
	for _, n := range before.Nodes {
		beforeNodes[n.Key()] = true
	}
	afterNodes := make(map[string]bool, len(after.Nodes))
	for _, n := range after.Nodes {
		afterNodes[n.Key()] = true
	}

	for _, n := range after.Nodes {
		if !beforeNodes[n.Key()] {
			d.AddedNodes = append(d.AddedNodes, n)
		}
	}
	for _, n := range before.Nodes {
		if !afterNodes[n.Key()] {
			d.RemovedNodes = append(d.RemovedNodes, n)
		}
	}

	beforeEdges := make(map[string]bool, len(before.Edges))
	for _, e := range before.Edges {
		beforeEdges[e.Key()] = true
	}
	afterEdges := make(map[string]bool, len(after.Edges))
	for _, e := range after.Edges {
		afterEdges[e.Key()] = true
	}

	for _, e := range after.Edges {
		if !beforeEdges[e.Key()] {
			d.AddedEdges = append(d.AddedEdges, e)
		}
	}
	for _, e := range before.Edges {
		if !afterEdges[e.Key()] {
			d.RemovedEdges = append(d.RemovedEdges, e)
		}
	}

	return d
}
