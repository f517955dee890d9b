package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dusk-indust/archdrift/internal/config"
	"github.com/dusk-indust/archdrift/internal/graph"
	"github.com/dusk-indust/archdrift/internal/lang"
	"github.com/dusk-indust/archdrift/internal/mcptools"
	"github.com/dusk-indust/archdrift/internal/report"
	"github.com/dusk-indust/archdrift/internal/source"
)

type scanFlags struct {
	Repo      string
	Rev       string
	Languages string
	Exclude   string
	Workers   int
	Out       string
	Format    string
	DB        string
	SaveAs    string
	Verbose   bool
}

func runScan(args []string) (int, error) {
	var flags scanFlags

	fs := flag.NewFlagSet("archdrift scan", flag.ContinueOnError)
	fs.StringVar(&flags.Repo, "repo", ".", "path to the repository to scan")
	fs.StringVar(&flags.Rev, "rev", "", "git revision to scan instead of the working tree")
	fs.StringVar(&flags.Languages, "languages", "", "comma-separated languages to scan (default: all)")
	fs.StringVar(&flags.Exclude, "exclude", "", "comma-separated directory names to skip")
	fs.IntVar(&flags.Workers, "workers", 0, "parallel scan workers (default: 1)")
	fs.StringVar(&flags.Out, "out", "", "output file (default: stdout)")
	fs.StringVar(&flags.Format, "format", "json", "output format: json or mermaid")
	fs.StringVar(&flags.DB, "db", "", "snapshot database path")
	fs.StringVar(&flags.SaveAs, "save-as", "", "store the scanned graph as a named snapshot (requires -db)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "print per-file diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		return exitError, err
	}
	if flags.Format != "json" && flags.Format != "mermaid" {
		return exitError, fmt.Errorf("unknown format %q", flags.Format)
	}

	cfg, err := config.Load(flags.Repo)
	if err != nil {
		return exitError, err
	}
	applyScanConfig(&flags, cfg)
	if flags.SaveAs != "" && flags.DB == "" {
		return exitError, fmt.Errorf("-save-as requires -db")
	}

	ctx := context.Background()
	g, diags, err := scanGraph(ctx, flags)
	if err != nil {
		return exitError, err
	}

	if flags.SaveAs != "" {
		if err := saveSnapshot(ctx, flags.DB, flags.SaveAs, g); err != nil {
			return exitError, err
		}
	}

	if flags.Verbose {
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "warning: %s\n", d)
		}
	}

	var out []byte
	switch flags.Format {
	case "json":
		out, err = graph.Encode(g)
		if err != nil {
			return exitError, err
		}
	case "mermaid":
		out = []byte(report.Mermaid(g))
	}

	if flags.Out == "" || flags.Out == "-" {
		_, err = os.Stdout.Write(out)
	} else {
		err = os.WriteFile(flags.Out, out, 0o644)
	}
	if err != nil {
		return exitError, err
	}
	return exitClean, nil
}

func applyScanConfig(flags *scanFlags, cfg *config.ProjectConfig) {
	if flags.Languages == "" && len(cfg.Languages) > 0 {
		flags.Languages = joinList(cfg.Languages)
	}
	if flags.Exclude == "" && len(cfg.ExcludeDirs) > 0 {
		flags.Exclude = joinList(cfg.ExcludeDirs)
	}
	if flags.Workers == 0 && cfg.Workers > 0 {
		flags.Workers = cfg.Workers
	}
	if flags.Out == "" && cfg.Output != "" {
		flags.Out = cfg.Output
	}
	if flags.DB == "" && cfg.DBPath != "" {
		flags.DB = cfg.DBPath
	}
	if cfg.Verbose {
		flags.Verbose = true
	}
}

// saveSnapshot persists the graph as a named baseline in the store at
// dbPath.
func saveSnapshot(ctx context.Context, dbPath, name string, g *graph.DependencyGraph) error {
	store, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	return store.SaveSnapshot(ctx, name, g)
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

// scanGraph assembles the graph for one revision, or the working tree when
// the revision is empty.
func scanGraph(ctx context.Context, flags scanFlags) (*graph.DependencyGraph, []lang.Diagnostic, error) {
	langs, err := mcptools.ParseLanguages(splitList(flags.Languages))
	if err != nil {
		return nil, nil, err
	}
	excludes := splitList(flags.Exclude)

	var files []lang.File
	var commitSHA string
	if flags.Rev == "" {
		walker, err := source.NewWalker(flags.Repo, excludes)
		if err != nil {
			return nil, nil, err
		}
		files, err = walker.Files()
		if err != nil {
			return nil, nil, err
		}
	} else {
		git := source.NewGitSource(flags.Repo, excludes)
		sha, ok, err := git.ResolveCommit(ctx, flags.Rev)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			commitSHA = sha
			files, err = git.Files(ctx, flags.Rev)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	scanner := lang.NewScanner(langs...)
	defer scanner.Close()

	frags, diags, err := scanner.ScanAllParallel(ctx, files, flags.Workers)
	if err != nil {
		return nil, nil, err
	}
	return graph.Assemble(frags, commitSHA), diags, nil
}
