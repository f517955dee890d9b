package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// validNodeKinds and validEdgeKinds gate deserialization: a persisted graph
// with an unknown kind is a broken comparison baseline and must fail loudly.
var validNodeKinds = map[NodeKind]bool{
	NodeKindClass:     true,
	NodeKindInterface: true,
	NodeKindProtocol:  true,
	NodeKindEnum:      true,
	NodeKindAlias:     true,
}

var validEdgeKinds = map[EdgeKind]bool{
	EdgeKindExtends:      true,
	EdgeKindImplements:   true,
	EdgeKindFieldType:    true,
	EdgeKindMethodParam:  true,
	EdgeKindMethodReturn: true,
	EdgeKindImport:       true,
}

// Encode serializes a graph as an indented JSON document. The wire shape is
// {nodes, edges, scannedAt, commitSha?} with scannedAt in RFC 3339.
func Encode(g *DependencyGraph) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("graph: encode nil graph")
	}
	// Normalize nil slices so empty graphs serialize as [] rather than null.
	cp := *g
	if cp.Nodes == nil {
		cp.Nodes = []GraphNode{}
	}
	if cp.Edges == nil {
		cp.Edges = []GraphEdge{}
	}
	out, err := json.MarshalIndent(&cp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("graph: encode: %w", err)
	}
	return append(out, '\n'), nil
}

// Decode parses a serialized graph document. It rejects unknown fields,
// unknown node/edge kinds, and empty names, so that a corrupt baseline
// surfaces as an error instead of a silently wrong diff.
func Decode(data []byte) (*DependencyGraph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var g DependencyGraph
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("graph: decode: %w", err)
	}

	for i, n := range g.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("graph: decode: node %d has empty name", i)
		}
		if !validNodeKinds[n.Kind] {
			return nil, fmt.Errorf("graph: decode: node %q has unknown kind %q", n.Name, n.Kind)
		}
	}
	for i, e := range g.Edges {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("graph: decode: edge %d has empty endpoint", i)
		}
		if !validEdgeKinds[e.Kind] {
			return nil, fmt.Errorf("graph: decode: edge %s->%s has unknown kind %q", e.From, e.To, e.Kind)
		}
	}
	return &g, nil
}

// EncodeDiff serializes a diff as an indented JSON document.
func EncodeDiff(d *GraphDiff) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("graph: encode nil diff")
	}
	cp := *d
	if cp.AddedNodes == nil {
		cp.AddedNodes = []GraphNode{}
	}
	if cp.RemovedNodes == nil {
		cp.RemovedNodes = []GraphNode{}
	}
	if cp.AddedEdges == nil {
		cp.AddedEdges = []GraphEdge{}
	}
	if cp.RemovedEdges == nil {
		cp.RemovedEdges = []GraphEdge{}
	}
	out, err := json.MarshalIndent(&cp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("graph: encode diff: %w", err)
	}
	return append(out, '\n'), nil
}
