// Package report renders graphs and diffs for human consumption.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// Markdown renders a drift report. An empty diff produces a short
// "no drift" document rather than empty sections.
func Markdown(d *graph.GraphDiff) string {
	var sb strings.Builder
	sb.WriteString("# Architectural Drift Report\n\n")

	if d.Empty() {
		sb.WriteString("No structural drift detected.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf(
		"%d added and %d removed declarations, %d added and %d removed relationships.\n",
		len(d.AddedNodes), len(d.RemovedNodes), len(d.AddedEdges), len(d.RemovedEdges)))

	writeNodeSection(&sb, "Added declarations", d.AddedNodes)
	writeNodeSection(&sb, "Removed declarations", d.RemovedNodes)
	writeEdgeSection(&sb, "Added relationships", d.AddedEdges)
	writeEdgeSection(&sb, "Removed relationships", d.RemovedEdges)
	return sb.String()
}

func writeNodeSection(sb *strings.Builder, title string, nodes []graph.GraphNode) {
	if len(nodes) == 0 {
		return
	}
	sorted := make([]graph.GraphNode, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Name < sorted[j].Name
	})

	sb.WriteString(fmt.Sprintf("\n## %s\n\n", title))
	var current graph.NodeKind
	for _, n := range sorted {
		if n.Kind != current {
			current = n.Kind
			sb.WriteString(fmt.Sprintf("### %s\n\n", current))
		}
		if n.File != "" {
			sb.WriteString(fmt.Sprintf("- `%s` (%s:%d)\n", n.Name, n.File, n.Line))
		} else {
			sb.WriteString(fmt.Sprintf("- `%s`\n", n.Name))
		}
	}
}

func writeEdgeSection(sb *strings.Builder, title string, edges []graph.GraphEdge) {
	if len(edges) == 0 {
		return
	}
	sorted := make([]graph.GraphEdge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Key() < sorted[j].Key()
	})

	sb.WriteString(fmt.Sprintf("\n## %s\n\n", title))
	var current graph.EdgeKind
	for _, e := range sorted {
		if e.Kind != current {
			current = e.Kind
			sb.WriteString(fmt.Sprintf("### %s\n\n", current))
		}
		sb.WriteString(fmt.Sprintf("- `%s` -> `%s`\n", e.From, e.To))
	}
}
