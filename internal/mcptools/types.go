package mcptools

import (
	"github.com/dusk-indust/archdrift/internal/graph"
	"github.com/dusk-indust/archdrift/internal/lang"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// ScanGraphInput is the input for the scan_graph MCP tool.
type ScanGraphInput struct {
	RepoPath    string   `json:"repoPath" jsonschema:"the absolute path to the repository to scan"`
	Rev         string   `json:"rev,omitempty" jsonschema:"git revision to scan instead of the working tree"`
	Languages   []string `json:"languages,omitempty" jsonschema:"languages to scan (default: all). Values: go, typescript, python, rust"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directories to exclude from scanning (e.g. generated, examples)"`
	Workers     int      `json:"workers,omitempty" jsonschema:"number of parallel scan workers (default: 1)"`
	SaveAs      string   `json:"saveAs,omitempty" jsonschema:"snapshot name to store the scanned graph under"`
}

// ScanGraphOutput is the result of the scan_graph MCP tool.
type ScanGraphOutput struct {
	Graph       *graph.DependencyGraph `json:"graph"`
	Stats       graph.GraphStats       `json:"stats"`
	Diagnostics []lang.Diagnostic      `json:"diagnostics,omitempty"`
}

// DiffGraphInput is the input for the diff_graph MCP tool. The baseline is
// either a git revision or a stored snapshot name; exactly one is required.
type DiffGraphInput struct {
	RepoPath       string   `json:"repoPath" jsonschema:"the absolute path to the repository to diff"`
	BeforeRev      string   `json:"beforeRev,omitempty" jsonschema:"baseline git revision"`
	BeforeSnapshot string   `json:"beforeSnapshot,omitempty" jsonschema:"stored snapshot name to use as the baseline instead of scanning a revision"`
	AfterRev       string   `json:"afterRev,omitempty" jsonschema:"git revision to compare against the baseline (default: working tree)"`
	Languages      []string `json:"languages,omitempty" jsonschema:"languages to scan (default: all)"`
	ExcludeDirs    []string `json:"excludeDirs,omitempty" jsonschema:"directories to exclude from scanning"`
	Workers        int      `json:"workers,omitempty" jsonschema:"number of parallel scan workers (default: 1)"`
}

// DiffGraphOutput is the result of the diff_graph MCP tool.
type DiffGraphOutput struct {
	Diff   *graph.GraphDiff `json:"diff"`
	Drift  bool             `json:"drift"`
	Report string           `json:"report"`
}

// GraphStatsInput is the input for the graph_stats MCP tool.
type GraphStatsInput struct {
	RepoPath    string   `json:"repoPath" jsonschema:"the absolute path to the repository to scan"`
	Rev         string   `json:"rev,omitempty" jsonschema:"git revision to scan instead of the working tree"`
	Languages   []string `json:"languages,omitempty" jsonschema:"languages to scan (default: all)"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directories to exclude from scanning"`
}

// GraphStatsOutput is the result of the graph_stats MCP tool.
type GraphStatsOutput struct {
	Stats graph.GraphStats `json:"stats"`
}

// ListSnapshotsInput is the input for the list_snapshots MCP tool.
type ListSnapshotsInput struct{}

// ListSnapshotsOutput is the result of the list_snapshots MCP tool.
type ListSnapshotsOutput struct {
	Snapshots []string `json:"snapshots"`
}
