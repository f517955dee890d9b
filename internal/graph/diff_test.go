package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeGraph(nodes []GraphNode, edges []GraphEdge) *DependencyGraph {
	return &DependencyGraph{Nodes: nodes, Edges: edges, ScannedAt: time.Now().UTC()}
}

func TestDiff_IdenticalGraphsAreEmpty(t *testing.T) {
	g := makeGraph(
		[]GraphNode{
			{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1},
			{Name: "Role", Kind: NodeKindEnum, File: "a.go", Line: 8},
		},
		[]GraphEdge{{From: "User", To: "Role", Kind: EdgeKindFieldType}},
	)

	d := Diff(g, g)
	assert.True(t, d.Empty())
}

func TestDiff_AddedAndRemovedNodes(t *testing.T) {
	before := makeGraph([]GraphNode{
		{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1},
		{Name: "Legacy", Kind: NodeKindClass, File: "old.go", Line: 1},
	}, nil)
	after := makeGraph([]GraphNode{
		{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1},
		{Name: "Role", Kind: NodeKindEnum, File: "a.go", Line: 9},
	}, nil)

	d := Diff(before, after)

	require.Len(t, d.AddedNodes, 1)
	assert.Equal(t, "Role", d.AddedNodes[0].Name)
	require.Len(t, d.RemovedNodes, 1)
	assert.Equal(t, "Legacy", d.RemovedNodes[0].Name)
	assert.Empty(t, d.AddedEdges)
	assert.Empty(t, d.RemovedEdges)
}

func TestDiff_KindChangeIsAddPlusRemove(t *testing.T) {
	before := makeGraph([]GraphNode{{Name: "Store", Kind: NodeKindClass, File: "s.ts", Line: 1}}, nil)
	after := makeGraph([]GraphNode{{Name: "Store", Kind: NodeKindInterface, File: "s.ts", Line: 1}}, nil)

	d := Diff(before, after)

	require.Len(t, d.AddedNodes, 1)
	assert.Equal(t, NodeKindInterface, d.AddedNodes[0].Kind)
	require.Len(t, d.RemovedNodes, 1)
	assert.Equal(t, NodeKindClass, d.RemovedNodes[0].Kind)
}

func TestDiff_FileAndLineChangesAreNotDrift(t *testing.T) {
	before := makeGraph([]GraphNode{{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 3}}, nil)
	after := makeGraph([]GraphNode{{Name: "User", Kind: NodeKindClass, File: "moved/b.go", Line: 71}}, nil)

	d := Diff(before, after)
	assert.True(t, d.Empty(), "identity is (name, kind); location is metadata")
}

func TestDiff_EdgeKindChange(t *testing.T) {
	nodes := []GraphNode{
		{Name: "A", Kind: NodeKindClass, File: "x.go", Line: 1},
		{Name: "B", Kind: NodeKindInterface, File: "x.go", Line: 5},
	}
	before := makeGraph(nodes, []GraphEdge{{From: "A", To: "B", Kind: EdgeKindExtends}})
	after := makeGraph(nodes, []GraphEdge{{From: "A", To: "B", Kind: EdgeKindImplements}})

	d := Diff(before, after)

	require.Len(t, d.AddedEdges, 1)
	assert.Equal(t, EdgeKindImplements, d.AddedEdges[0].Kind)
	require.Len(t, d.RemovedEdges, 1)
	assert.Equal(t, EdgeKindExtends, d.RemovedEdges[0].Kind)
	assert.Empty(t, d.AddedNodes)
	assert.Empty(t, d.RemovedNodes)
}

func TestDiff_OrderInsensitive(t *testing.T) {
	n1 := GraphNode{Name: "A", Kind: NodeKindClass, File: "x.go", Line: 1}
	n2 := GraphNode{Name: "B", Kind: NodeKindClass, File: "y.go", Line: 1}
	e1 := GraphEdge{From: "A", To: "B", Kind: EdgeKindFieldType}
	e2 := GraphEdge{From: "B", To: "A", Kind: EdgeKindMethodParam}

	before := makeGraph([]GraphNode{n1, n2}, []GraphEdge{e1, e2})
	after := makeGraph([]GraphNode{n2, n1}, []GraphEdge{e2, e1})

	d := Diff(before, after)
	assert.True(t, d.Empty(), "diffing compares sets, not sequences")
}

func TestDiff_Symmetry(t *testing.T) {
	// Swapping the arguments swaps added and removed, element for element.
	before := makeGraph(
		[]GraphNode{
			{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1},
			{Name: "Legacy", Kind: NodeKindClass, File: "old.go", Line: 1},
			{Name: "Repository", Kind: NodeKindInterface, File: "a.go", Line: 9},
		},
		[]GraphEdge{
			{From: "User", To: "Legacy", Kind: EdgeKindFieldType},
			{From: "Repository", To: "User", Kind: EdgeKindMethodReturn},
		},
	)
	after := makeGraph(
		[]GraphNode{
			{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1},
			{Name: "Role", Kind: NodeKindEnum, File: "r.go", Line: 3},
			{Name: "Repository", Kind: NodeKindInterface, File: "a.go", Line: 9},
		},
		[]GraphEdge{
			{From: "User", To: "Role", Kind: EdgeKindFieldType},
			{From: "Repository", To: "User", Kind: EdgeKindMethodReturn},
		},
	)

	forward := Diff(before, after)
	reverse := Diff(after, before)

	require.NotEmpty(t, forward.AddedNodes)
	require.NotEmpty(t, forward.RemovedNodes)
	assert.Equal(t, forward.AddedNodes, reverse.RemovedNodes)
	assert.Equal(t, forward.RemovedNodes, reverse.AddedNodes)
	assert.Equal(t, forward.AddedEdges, reverse.RemovedEdges)
	assert.Equal(t, forward.RemovedEdges, reverse.AddedEdges)
}

func TestDiff_EmptyGraphs(t *testing.T) {
	empty := makeGraph(nil, nil)
	populated := makeGraph(
		[]GraphNode{{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1}},
		nil,
	)

	d := Diff(empty, populated)
	assert.Len(t, d.AddedNodes, 1)
	assert.Empty(t, d.RemovedNodes)

	d = Diff(populated, empty)
	assert.Empty(t, d.AddedNodes)
	assert.Len(t, d.RemovedNodes, 1)

	assert.True(t, Diff(empty, empty).Empty())
}
