//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the snapshot
// backend. It requires CGO because the go-kuzu driver wraps KuzuDB's C
// library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path, so snapshot baselines survive across sessions.
// KuzuDB creates the leaf directory itself for new databases.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Snapshot(
		rev STRING,
		scanned_at STRING,
		commit_sha STRING,
		seq INT64,
		PRIMARY KEY(rev)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS TypeDecl(
		id STRING,
		rev STRING,
		name STRING,
		kind STRING,
		file STRING,
		line INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS REFERS(FROM TypeDecl TO TypeDecl, kind STRING, rev STRING)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Store interface ----------

// SaveSnapshot stores a snapshot under rev, replacing any existing one.
// The writes are not transactional; when any insert fails the partially
// written snapshot is deleted so rev is either fully stored or absent.
func (s *KuzuStore) SaveSnapshot(ctx context.Context, rev string, g *DependencyGraph) error {
	if err := s.deleteSnapshot(rev); err != nil {
		return err
	}
	if err := s.insertSnapshot(rev, g); err != nil {
		if delErr := s.deleteSnapshot(rev); delErr != nil {
			return fmt.Errorf("%w (cleanup failed: %v)", err, delErr)
		}
		return err
	}
	return nil
}

func (s *KuzuStore) insertSnapshot(rev string, g *DependencyGraph) error {
	seq, err := s.nextSeq()
	if err != nil {
		return err
	}
	if err := s.exec(
		"CREATE (s:Snapshot {rev: $rev, scanned_at: $at, commit_sha: $sha, seq: $seq})",
		map[string]any{
			"rev": rev,
			"at":  g.ScannedAt.UTC().Format(time.RFC3339Nano),
			"sha": g.CommitSHA,
			"seq": seq,
		},
	); err != nil {
		return err
	}

	for _, n := range g.Nodes {
		if err := s.exec(
			`CREATE (t:TypeDecl {id: $id, rev: $rev, name: $name, kind: $kind, file: $file, line: $line})`,
			map[string]any{
				"id":   declID(rev, n),
				"rev":  rev,
				"name": n.Name,
				"kind": string(n.Kind),
				"file": n.File,
				"line": int64(n.Line),
			},
		); err != nil {
			return err
		}
	}

	for _, e := range g.Edges {
		// Edge endpoints are names; a name shared by two kinds matches both
		// declarations, which DISTINCT collapses again on load.
		if err := s.exec(
			`MATCH (a:TypeDecl {rev: $rev, name: $from}), (b:TypeDecl {rev: $rev, name: $to})
			 CREATE (a)-[:REFERS {kind: $kind, rev: $rev}]->(b)`,
			map[string]any{
				"rev":  rev,
				"from": e.From,
				"to":   e.To,
				"kind": string(e.Kind),
			},
		); err != nil {
			return err
		}
	}

	return nil
}

// LoadSnapshot returns the snapshot stored under rev, or nil when absent.
// Nodes and edges come back in identity-key order, not original scan order;
// diffing is order-insensitive so baselines loaded from the store compare
// correctly against fresh scans.
func (s *KuzuStore) LoadSnapshot(_ context.Context, rev string) (*DependencyGraph, error) {
	rows, err := s.query(
		"MATCH (s:Snapshot {rev: $rev}) RETURN s.scanned_at, s.commit_sha",
		map[string]any{"rev": rev},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	scannedAt, err := time.Parse(time.RFC3339Nano, toString(rows[0][0]))
	if err != nil {
		return nil, fmt.Errorf("kuzu: snapshot %s has bad timestamp: %w", rev, err)
	}
	g := &DependencyGraph{
		ScannedAt: scannedAt,
		CommitSHA: toString(rows[0][1]),
	}

	nodeRows, err := s.query(
		"MATCH (t:TypeDecl {rev: $rev}) RETURN t.name, t.kind, t.file, t.line",
		map[string]any{"rev": rev},
	)
	if err != nil {
		return nil, err
	}
	for _, r := range nodeRows {
		g.Nodes = append(g.Nodes, GraphNode{
			Name: toString(r[0]),
			Kind: NodeKind(toString(r[1])),
			File: toString(r[2]),
			Line: toInt(r[3]),
		})
	}
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].Key() < g.Nodes[j].Key() })

	edgeRows, err := s.query(
		`MATCH (a:TypeDecl)-[r:REFERS {rev: $rev}]->(b:TypeDecl)
		 RETURN DISTINCT a.name, b.name, r.kind`,
		map[string]any{"rev": rev},
	)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(edgeRows))
	for _, r := range edgeRows {
		e := GraphEdge{
			From: toString(r[0]),
			To:   toString(r[1]),
			Kind: EdgeKind(toString(r[2])),
		}
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		g.Edges = append(g.Edges, e)
	}
	sort.Slice(g.Edges, func(i, j int) bool { return g.Edges[i].Key() < g.Edges[j].Key() })

	return g, nil
}

// ListSnapshots returns stored revisions in save order.
func (s *KuzuStore) ListSnapshots(_ context.Context) ([]string, error) {
	rows, err := s.query("MATCH (s:Snapshot) RETURN s.rev, s.seq", nil)
	if err != nil {
		return nil, err
	}
	type entry struct {
		rev string
		seq int
	}
	entries := make([]entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, entry{rev: toString(r[0]), seq: toInt(r[1])})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.rev)
	}
	return out, nil
}

// ---------- Internal helpers ----------

// deleteSnapshot removes a previously stored snapshot and its declarations.
func (s *KuzuStore) deleteSnapshot(rev string) error {
	statements := []string{
		"MATCH (a:TypeDecl {rev: $rev})-[r:REFERS]->() DELETE r",
		"MATCH (t:TypeDecl {rev: $rev}) DELETE t",
		"MATCH (s:Snapshot {rev: $rev}) DELETE s",
	}
	for _, stmt := range statements {
		if err := s.exec(stmt, map[string]any{"rev": rev}); err != nil {
			return err
		}
	}
	return nil
}

// nextSeq returns a monotonically increasing save-order counter.
func (s *KuzuStore) nextSeq() (int64, error) {
	rows, err := s.query("MATCH (s:Snapshot) RETURN count(s)", nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return int64(toInt(rows[0][0])) + 1, nil
}

// declID produces a deterministic identifier for a stored declaration.
func declID(rev string, n GraphNode) string {
	return rev + "|" + n.Name + "|" + string(n.Kind)
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
