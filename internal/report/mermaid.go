package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// mermaidArrows maps relationship kinds to classDiagram-style arrows in a
// flowchart, annotated with the kind where the arrow alone is ambiguous.
var mermaidArrows = map[graph.EdgeKind]string{
	graph.EdgeKindExtends:      "--|> ",
	graph.EdgeKindImplements:   "..|> ",
	graph.EdgeKindFieldType:    "--> ",
	graph.EdgeKindMethodParam:  "--> ",
	graph.EdgeKindMethodReturn: "--> ",
	graph.EdgeKindImport:       "..> ",
}

// Mermaid renders a dependency graph as a Mermaid classDiagram. Nodes are
// grouped by kind via stereotypes; every edge kind gets its own arrow style
// with a label for the reference kinds that share one.
func Mermaid(g *graph.DependencyGraph) string {
	var sb strings.Builder
	sb.WriteString("classDiagram\n")

	nodes := make([]graph.GraphNode, len(g.Nodes))
	copy(nodes, g.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Key() < nodes[j].Key() })

	for _, n := range nodes {
		id := mermaidID(n.Name)
		switch n.Kind {
		case graph.NodeKindClass:
			sb.WriteString(fmt.Sprintf("  class %s\n", id))
		default:
			sb.WriteString(fmt.Sprintf("  class %s {\n    <<%s>>\n  }\n", id, n.Kind))
		}
	}

	edges := make([]graph.GraphEdge, len(g.Edges))
	copy(edges, g.Edges)
	sort.Slice(edges, func(i, j int) bool { return edges[i].Key() < edges[j].Key() })

	for _, e := range edges {
		arrow, ok := mermaidArrows[e.Kind]
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %s %s%s", mermaidID(e.From), arrow, mermaidID(e.To))
		switch e.Kind {
		case graph.EdgeKindFieldType, graph.EdgeKindMethodParam, graph.EdgeKindMethodReturn, graph.EdgeKindImport:
			line += fmt.Sprintf(" : %s", e.Kind)
		}
		sb.WriteString(line + "\n")
	}

	return sb.String()
}

// mermaidID strips characters Mermaid identifiers cannot carry.
func mermaidID(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
