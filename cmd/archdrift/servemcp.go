package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/archdrift/internal/mcptools"
)

func runServeMCP(args []string) (int, error) {
	var addr, dbPath string

	fs := flag.NewFlagSet("archdrift serve-mcp", flag.ContinueOnError)
	fs.StringVar(&addr, "addr", ":8137", "listen address for the MCP HTTP server")
	fs.StringVar(&dbPath, "db", "", "snapshot database path (default: in-memory)")

	if err := fs.Parse(args); err != nil {
		return exitError, err
	}

	store, err := openStore(dbPath)
	if err != nil {
		return exitError, err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.InitSchema(ctx); err != nil {
		return exitError, err
	}

	fmt.Fprintf(os.Stderr, "archdrift MCP server listening on %s\n", addr)
	if err := mcptools.RunMCPServer(ctx, mcptools.NewDriftService(store), addr, version); err != nil {
		return exitError, err
	}
	return exitClean, nil
}
