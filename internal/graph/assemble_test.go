package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_DedupesNodesFirstWins(t *testing.T) {
	frags := []Fragment{
		{Nodes: []GraphNode{{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 3}}},
		{Nodes: []GraphNode{{Name: "User", Kind: NodeKindClass, File: "b.go", Line: 9}}},
	}

	g := Assemble(frags, "")

	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "a.go", g.Nodes[0].File, "first declaration scanned should win")
	assert.Equal(t, 3, g.Nodes[0].Line)
}

func TestAssemble_SameNameDifferentKindStaysDistinct(t *testing.T) {
	frags := []Fragment{
		{Nodes: []GraphNode{
			{Name: "Shape", Kind: NodeKindClass, File: "shape.py", Line: 1},
			{Name: "Shape", Kind: NodeKindProtocol, File: "proto.py", Line: 1},
		}},
	}

	g := Assemble(frags, "")
	assert.Len(t, g.Nodes, 2)
}

func TestAssemble_DropsUnresolvedEdges(t *testing.T) {
	frags := []Fragment{
		{
			Nodes: []GraphNode{
				{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1},
				{Name: "Role", Kind: NodeKindEnum, File: "a.go", Line: 5},
			},
			Edges: []GraphEdge{
				{From: "User", To: "Role", Kind: EdgeKindFieldType},
				{From: "User", To: "AuditLog", Kind: EdgeKindMethodParam}, // undeclared target
				{From: "Ghost", To: "User", Kind: EdgeKindExtends},        // undeclared source
			},
		},
	}

	g := Assemble(frags, "")

	require.Len(t, g.Edges, 1)
	assert.Equal(t, GraphEdge{From: "User", To: "Role", Kind: EdgeKindFieldType}, g.Edges[0])
}

func TestAssemble_DropsSelfLoops(t *testing.T) {
	frags := []Fragment{
		{
			Nodes: []GraphNode{{Name: "Node", Kind: NodeKindClass, File: "n.go", Line: 1}},
			Edges: []GraphEdge{{From: "Node", To: "Node", Kind: EdgeKindFieldType}},
		},
	}

	g := Assemble(frags, "")
	assert.Empty(t, g.Edges, "self-references carry no drift signal")
}

func TestAssemble_DedupesEdges(t *testing.T) {
	frags := []Fragment{
		{
			Nodes: []GraphNode{
				{Name: "A", Kind: NodeKindClass, File: "x.go", Line: 1},
				{Name: "B", Kind: NodeKindClass, File: "x.go", Line: 5},
			},
			Edges: []GraphEdge{
				{From: "A", To: "B", Kind: EdgeKindFieldType},
				{From: "A", To: "B", Kind: EdgeKindFieldType},
				{From: "A", To: "B", Kind: EdgeKindMethodParam},
			},
		},
	}

	g := Assemble(frags, "")
	assert.Len(t, g.Edges, 2, "same (from, to, kind) collapses; a different kind does not")
}

func TestAssemble_StampsMetadata(t *testing.T) {
	before := time.Now().UTC()
	g := Assemble(nil, "abc123")
	after := time.Now().UTC()

	assert.Equal(t, "abc123", g.CommitSHA)
	assert.False(t, g.ScannedAt.Before(before))
	assert.False(t, g.ScannedAt.After(after))
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestAssemble_Idempotent(t *testing.T) {
	frags := []Fragment{
		{
			Nodes: []GraphNode{
				{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1},
				{Name: "Role", Kind: NodeKindEnum, File: "a.go", Line: 7},
			},
			Edges: []GraphEdge{
				{From: "User", To: "Role", Kind: EdgeKindFieldType},
				{From: "User", To: "Role", Kind: EdgeKindFieldType},
				{From: "User", To: "Missing", Kind: EdgeKindMethodParam},
			},
		},
	}

	once := Assemble(frags, "sha")
	twice := Assemble([]Fragment{{Nodes: once.Nodes, Edges: once.Edges}}, "sha")

	assert.Equal(t, once.Nodes, twice.Nodes, "assembled output is already deduped and resolved")
	assert.Equal(t, once.Edges, twice.Edges)
}

func TestAssemble_EdgeResolvesAcrossKinds(t *testing.T) {
	// Edge endpoints are names; a target declared under any kind resolves.
	frags := []Fragment{
		{
			Nodes: []GraphNode{
				{Name: "Svc", Kind: NodeKindClass, File: "s.ts", Line: 1},
				{Name: "Ident", Kind: NodeKindAlias, File: "t.ts", Line: 1},
			},
			Edges: []GraphEdge{{From: "Svc", To: "Ident", Kind: EdgeKindFieldType}},
		},
	}

	g := Assemble(frags, "")
	assert.Len(t, g.Edges, 1)
}
