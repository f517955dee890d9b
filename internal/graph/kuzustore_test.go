//go:build cgo

package graph

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKuzuStore(t *testing.T) *KuzuStore {
	t.Helper()
	store, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema(context.Background()))
	return store
}

func TestKuzuStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestKuzuStore(t)

	g := &DependencyGraph{
		Nodes: []GraphNode{
			{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 4},
			{Name: "Repository", Kind: NodeKindInterface, File: "a.go", Line: 11},
			{Name: "Role", Kind: NodeKindEnum, File: "r.go", Line: 2},
		},
		Edges: []GraphEdge{
			{From: "Repository", To: "User", Kind: EdgeKindMethodReturn},
			{From: "User", To: "Role", Kind: EdgeKindFieldType},
		},
		ScannedAt: time.Date(2026, 8, 1, 9, 0, 0, 123456789, time.UTC),
		CommitSHA: "deadbeef",
	}
	require.NoError(t, store.SaveSnapshot(ctx, "main", g))

	got, err := store.LoadSnapshot(ctx, "main")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.True(t, got.ScannedAt.Equal(g.ScannedAt))
	assert.Equal(t, "deadbeef", got.CommitSHA)

	// Loaded collections come back in identity-key order.
	wantNodes := append([]GraphNode(nil), g.Nodes...)
	sort.Slice(wantNodes, func(i, j int) bool { return wantNodes[i].Key() < wantNodes[j].Key() })
	assert.Equal(t, wantNodes, got.Nodes)

	wantEdges := append([]GraphEdge(nil), g.Edges...)
	sort.Slice(wantEdges, func(i, j int) bool { return wantEdges[i].Key() < wantEdges[j].Key() })
	assert.Equal(t, wantEdges, got.Edges)
}

func TestKuzuStore_FailedSaveLeavesNoPartialSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestKuzuStore(t)

	// Duplicate (name, kind) pairs violate the declaration primary key, so
	// the save fails after the snapshot row and first node were written.
	g := &DependencyGraph{
		Nodes: []GraphNode{
			{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1},
			{Name: "User", Kind: NodeKindClass, File: "b.go", Line: 9},
		},
		ScannedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
	require.Error(t, store.SaveSnapshot(ctx, "broken", g))

	loaded, err := store.LoadSnapshot(ctx, "broken")
	require.NoError(t, err)
	assert.Nil(t, loaded, "a failed save must not leave a partial snapshot")

	revs, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, revs)
}

func TestKuzuStore_MissingSnapshotIsNil(t *testing.T) {
	store := newTestKuzuStore(t)

	got, err := store.LoadSnapshot(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKuzuStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestKuzuStore(t)

	first := &DependencyGraph{
		Nodes:     []GraphNode{{Name: "A", Kind: NodeKindClass, File: "a.go", Line: 1}},
		ScannedAt: time.Now().UTC(),
	}
	second := &DependencyGraph{
		Nodes:     []GraphNode{{Name: "B", Kind: NodeKindClass, File: "b.go", Line: 1}},
		ScannedAt: time.Now().UTC(),
	}

	require.NoError(t, store.SaveSnapshot(ctx, "main", first))
	require.NoError(t, store.SaveSnapshot(ctx, "main", second))

	got, err := store.LoadSnapshot(ctx, "main")
	require.NoError(t, err)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "B", got.Nodes[0].Name)

	revs, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, revs)
}

func TestKuzuStore_ListSnapshotsInSaveOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestKuzuStore(t)

	empty := &DependencyGraph{ScannedAt: time.Now().UTC()}
	for _, rev := range []string{"v3", "v1", "v2"} {
		require.NoError(t, store.SaveSnapshot(ctx, rev, empty))
	}

	revs, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v3", "v1", "v2"}, revs)
}

func TestKuzuStore_SnapshotsAreIsolatedByRev(t *testing.T) {
	ctx := context.Background()
	store := newTestKuzuStore(t)

	a := &DependencyGraph{
		Nodes:     []GraphNode{{Name: "A", Kind: NodeKindClass, File: "a.go", Line: 1}},
		ScannedAt: time.Now().UTC(),
	}
	b := &DependencyGraph{
		Nodes:     []GraphNode{{Name: "B", Kind: NodeKindClass, File: "b.go", Line: 1}},
		ScannedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveSnapshot(ctx, "before", a))
	require.NoError(t, store.SaveSnapshot(ctx, "after", b))

	got, err := store.LoadSnapshot(ctx, "before")
	require.NoError(t, err)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "A", got.Nodes[0].Name)
}

func TestKuzuFileStore_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dbPath := t.TempDir() + "/snapshots"

	store, err := NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.InitSchema(ctx))

	g := &DependencyGraph{
		Nodes:     []GraphNode{{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1}},
		ScannedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveSnapshot(ctx, "main", g))
	require.NoError(t, store.Close())

	reopened, err := NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.InitSchema(ctx))

	got, err := reopened.LoadSnapshot(ctx, "main")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "User", got.Nodes[0].Name)
}
