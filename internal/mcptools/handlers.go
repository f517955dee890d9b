package mcptools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/archdrift/internal/graph"
	"github.com/dusk-indust/archdrift/internal/lang"
	"github.com/dusk-indust/archdrift/internal/report"
	"github.com/dusk-indust/archdrift/internal/source"
)

// DriftService holds the snapshot store shared by MCP tool handlers. The
// store may be nil, in which case saveAs requests are rejected.
type DriftService struct {
	store graph.Store
}

// NewDriftService creates a DriftService backed by store.
func NewDriftService(store graph.Store) *DriftService {
	return &DriftService{store: store}
}

// ScanGraph scans a repository (working tree or git revision) and returns
// the assembled dependency graph.
func (s *DriftService) ScanGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanGraphInput,
) (*mcp.CallToolResult, ScanGraphOutput, error) {
	g, diags, err := s.scan(ctx, input.RepoPath, input.Rev, input.Languages, input.ExcludeDirs, input.Workers)
	if err != nil {
		return nil, ScanGraphOutput{}, err
	}

	if input.SaveAs != "" {
		if s.store == nil {
			return nil, ScanGraphOutput{}, fmt.Errorf("no snapshot store configured")
		}
		if err := s.store.SaveSnapshot(ctx, input.SaveAs, g); err != nil {
			return nil, ScanGraphOutput{}, fmt.Errorf("save snapshot %s: %w", input.SaveAs, err)
		}
	}

	return nil, ScanGraphOutput{Graph: g, Stats: g.Stats(), Diagnostics: diags}, nil
}

// DiffGraph diffs a baseline against a revision of the repository and
// reports the structural drift. The baseline is a stored snapshot when
// beforeSnapshot is set and a scanned git revision otherwise.
func (s *DriftService) DiffGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DiffGraphInput,
) (*mcp.CallToolResult, DiffGraphOutput, error) {
	var before *graph.DependencyGraph
	switch {
	case input.BeforeSnapshot != "":
		if s.store == nil {
			return nil, DiffGraphOutput{}, fmt.Errorf("no snapshot store configured")
		}
		saved, err := s.store.LoadSnapshot(ctx, input.BeforeSnapshot)
		if err != nil {
			return nil, DiffGraphOutput{}, fmt.Errorf("load snapshot %s: %w", input.BeforeSnapshot, err)
		}
		if saved == nil {
			return nil, DiffGraphOutput{}, fmt.Errorf("snapshot %q not found", input.BeforeSnapshot)
		}
		before = saved
	case input.BeforeRev != "":
		scanned, _, err := s.scan(ctx, input.RepoPath, input.BeforeRev, input.Languages, input.ExcludeDirs, input.Workers)
		if err != nil {
			return nil, DiffGraphOutput{}, err
		}
		before = scanned
	default:
		return nil, DiffGraphOutput{}, fmt.Errorf("beforeRev or beforeSnapshot is required")
	}

	after, _, err := s.scan(ctx, input.RepoPath, input.AfterRev, input.Languages, input.ExcludeDirs, input.Workers)
	if err != nil {
		return nil, DiffGraphOutput{}, err
	}

	d := graph.Diff(before, after)
	return nil, DiffGraphOutput{
		Diff:   d,
		Drift:  !d.Empty(),
		Report: report.Markdown(d),
	}, nil
}

// GraphStats scans a repository and returns declaration and relationship
// counts by kind.
func (s *DriftService) GraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	g, _, err := s.scan(ctx, input.RepoPath, input.Rev, input.Languages, input.ExcludeDirs, 0)
	if err != nil {
		return nil, GraphStatsOutput{}, err
	}
	return nil, GraphStatsOutput{Stats: g.Stats()}, nil
}

// ListSnapshots returns the names of stored snapshots in save order.
func (s *DriftService) ListSnapshots(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListSnapshotsInput,
) (*mcp.CallToolResult, ListSnapshotsOutput, error) {
	if s.store == nil {
		return nil, ListSnapshotsOutput{}, fmt.Errorf("no snapshot store configured")
	}
	revs, err := s.store.ListSnapshots(ctx)
	if err != nil {
		return nil, ListSnapshotsOutput{}, err
	}
	return nil, ListSnapshotsOutput{Snapshots: revs}, nil
}

// scan assembles the dependency graph for one revision. An empty rev scans
// the working tree.
func (s *DriftService) scan(
	ctx context.Context,
	repoPath, rev string,
	languages, excludeDirs []string,
	workers int,
) (*graph.DependencyGraph, []lang.Diagnostic, error) {
	if repoPath == "" {
		return nil, nil, fmt.Errorf("repoPath is required")
	}
	info, err := os.Stat(repoPath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot access repoPath: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("repoPath is not a directory: %s", repoPath)
	}

	langs, err := ParseLanguages(languages)
	if err != nil {
		return nil, nil, err
	}

	var files []lang.File
	var commitSHA string
	if rev == "" {
		walker, err := source.NewWalker(repoPath, excludeDirs)
		if err != nil {
			return nil, nil, err
		}
		files, err = walker.Files()
		if err != nil {
			return nil, nil, err
		}
	} else {
		git := source.NewGitSource(repoPath, excludeDirs)
		sha, ok, err := git.ResolveCommit(ctx, rev)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			commitSHA = sha
			files, err = git.Files(ctx, rev)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	scanner := lang.NewScanner(langs...)
	defer scanner.Close()

	frags, diags, err := scanner.ScanAllParallel(ctx, files, workers)
	if err != nil {
		return nil, nil, err
	}
	return graph.Assemble(frags, commitSHA), diags, nil
}

// ParseLanguages validates language names against the registry.
func ParseLanguages(names []string) ([]lang.Language, error) {
	var langs []lang.Language
	for _, name := range names {
		id := lang.Language(strings.ToLower(strings.TrimSpace(name)))
		found := false
		for _, supported := range lang.Supported {
			if id == supported {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unsupported language %q", name)
		}
		langs = append(langs, id)
	}
	return langs, nil
}
