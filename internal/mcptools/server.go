package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewDriftMCPServer creates an MCP server with the drift analysis tools
// registered. The version is advertised to MCP clients and comes from the
// caller's build metadata.
func NewDriftMCPServer(svc *DriftService, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "archdrift",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_graph",
		Description: "Scan a repository and extract its structural dependency graph. Parses source files using tree-sitter and returns declared types with their typed relationships.",
	}, svc.ScanGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "diff_graph",
		Description: "Diff the dependency graphs of two revisions and report architectural drift: added and removed declarations and relationships.",
	}, svc.DiffGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Scan a repository and return declaration and relationship counts grouped by kind.",
	}, svc.GraphStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_snapshots",
		Description: "List stored graph snapshots in save order. Snapshots are written by scan_graph's saveAs and serve as diff baselines.",
	}, svc.ListSnapshots)

	return server
}

// RunMCPServer starts an HTTP server exposing the drift analysis MCP tools.
func RunMCPServer(ctx context.Context, svc *DriftService, addr, version string) error {
	server := NewDriftMCPServer(svc, version)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
