package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/archdrift/internal/config"
	"github.com/dusk-indust/archdrift/internal/graph"
	"github.com/dusk-indust/archdrift/internal/report"
)

type diffFlags struct {
	Repo       string
	Before     string
	After      string
	BeforeFile string
	AfterFile  string
	Baseline   string
	DB         string
	Languages  string
	Exclude    string
	Workers    int
	Out        string
	Format     string
	Verbose    bool
}

func runDiff(args []string) (int, error) {
	var flags diffFlags

	fs := flag.NewFlagSet("archdrift diff", flag.ContinueOnError)
	fs.StringVar(&flags.Repo, "repo", ".", "path to the repository to diff")
	fs.StringVar(&flags.Before, "before", "", "baseline git revision")
	fs.StringVar(&flags.After, "after", "", "git revision to compare (default: working tree)")
	fs.StringVar(&flags.BeforeFile, "before-file", "", "baseline graph JSON file instead of a revision")
	fs.StringVar(&flags.AfterFile, "after-file", "", "comparison graph JSON file instead of a revision")
	fs.StringVar(&flags.Baseline, "baseline", "", "stored snapshot name to use as the baseline (requires -db)")
	fs.StringVar(&flags.DB, "db", "", "snapshot database path")
	fs.StringVar(&flags.Languages, "languages", "", "comma-separated languages to scan (default: all)")
	fs.StringVar(&flags.Exclude, "exclude", "", "comma-separated directory names to skip")
	fs.IntVar(&flags.Workers, "workers", 0, "parallel scan workers (default: 1)")
	fs.StringVar(&flags.Out, "out", "", "output file (default: stdout)")
	fs.StringVar(&flags.Format, "format", "markdown", "output format: markdown or json")
	fs.BoolVar(&flags.Verbose, "verbose", false, "print per-file diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		return exitError, err
	}
	if flags.Format != "markdown" && flags.Format != "json" {
		return exitError, fmt.Errorf("unknown format %q", flags.Format)
	}
	if flags.Before == "" && flags.BeforeFile == "" && flags.Baseline == "" {
		return exitError, fmt.Errorf("-before, -before-file, or -baseline is required")
	}

	cfg, err := config.Load(flags.Repo)
	if err != nil {
		return exitError, err
	}
	applyDiffConfig(&flags, cfg)
	if flags.Baseline != "" && flags.DB == "" {
		return exitError, fmt.Errorf("-baseline requires -db")
	}

	ctx := context.Background()
	before, err := resolveBaseline(ctx, flags)
	if err != nil {
		return exitError, err
	}
	after, err := resolveGraph(ctx, flags, flags.AfterFile, flags.After)
	if err != nil {
		return exitError, err
	}

	d := graph.Diff(before, after)

	var out []byte
	switch flags.Format {
	case "markdown":
		out = []byte(report.Markdown(d))
	case "json":
		out, err = graph.EncodeDiff(d)
		if err != nil {
			return exitError, err
		}
	}

	if flags.Out == "" || flags.Out == "-" {
		_, err = os.Stdout.Write(out)
	} else {
		err = os.WriteFile(flags.Out, out, 0o644)
	}
	if err != nil {
		return exitError, err
	}

	if !d.Empty() {
		return exitDrift, nil
	}
	return exitClean, nil
}

func applyDiffConfig(flags *diffFlags, cfg *config.ProjectConfig) {
	if flags.Languages == "" && len(cfg.Languages) > 0 {
		flags.Languages = joinList(cfg.Languages)
	}
	if flags.Exclude == "" && len(cfg.ExcludeDirs) > 0 {
		flags.Exclude = joinList(cfg.ExcludeDirs)
	}
	if flags.Workers == 0 && cfg.Workers > 0 {
		flags.Workers = cfg.Workers
	}
	if flags.DB == "" && cfg.DBPath != "" {
		flags.DB = cfg.DBPath
	}
	if cfg.Verbose {
		flags.Verbose = true
	}
}

// resolveBaseline picks the before graph: a JSON file wins, then a stored
// snapshot, then a scanned revision.
func resolveBaseline(ctx context.Context, flags diffFlags) (*graph.DependencyGraph, error) {
	if flags.BeforeFile == "" && flags.Baseline != "" {
		return loadSnapshot(ctx, flags.DB, flags.Baseline)
	}
	return resolveGraph(ctx, flags, flags.BeforeFile, flags.Before)
}

// loadSnapshot reads a named baseline from the snapshot store at dbPath.
func loadSnapshot(ctx context.Context, dbPath, name string) (*graph.DependencyGraph, error) {
	store, err := openStore(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return nil, err
	}
	g, err := store.LoadSnapshot(ctx, name)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("snapshot %q not found in %s", name, dbPath)
	}
	return g, nil
}

// resolveGraph loads a graph from a JSON document when file is set and
// scans the repository at rev otherwise. An empty rev means the working
// tree.
func resolveGraph(ctx context.Context, flags diffFlags, file, rev string) (*graph.DependencyGraph, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return graph.Decode(data)
	}

	g, diags, err := scanGraph(ctx, scanFlags{
		Repo:      flags.Repo,
		Rev:       rev,
		Languages: flags.Languages,
		Exclude:   flags.Exclude,
		Workers:   flags.Workers,
	})
	if err != nil {
		return nil, err
	}
	if flags.Verbose {
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "warning: %s\n", d)
		}
	}
	return g, nil
}
