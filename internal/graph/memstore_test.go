package graph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	defer store.Close()
	require.NoError(t, store.InitSchema(ctx))

	g := makeGraph(
		[]GraphNode{{Name: "User", Kind: NodeKindClass, File: "a.go", Line: 1}},
		nil,
	)
	require.NoError(t, store.SaveSnapshot(ctx, "main", g))

	got, err := store.LoadSnapshot(ctx, "main")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, g.Equal(got))
}

func TestMemStore_MissingSnapshotIsNil(t *testing.T) {
	store := NewMemStore()
	defer store.Close()

	got, err := store.LoadSnapshot(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	defer store.Close()

	first := makeGraph([]GraphNode{{Name: "A", Kind: NodeKindClass, File: "a.go", Line: 1}}, nil)
	second := makeGraph([]GraphNode{{Name: "B", Kind: NodeKindClass, File: "b.go", Line: 1}}, nil)

	require.NoError(t, store.SaveSnapshot(ctx, "main", first))
	require.NoError(t, store.SaveSnapshot(ctx, "main", second))

	got, err := store.LoadSnapshot(ctx, "main")
	require.NoError(t, err)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "B", got.Nodes[0].Name)

	revs, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, revs, "replacement keeps a single entry")
}

func TestMemStore_ListSnapshotsInSaveOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	defer store.Close()

	empty := &DependencyGraph{ScannedAt: time.Now().UTC()}
	for _, rev := range []string{"v3", "v1", "v2"} {
		require.NoError(t, store.SaveSnapshot(ctx, rev, empty))
	}

	revs, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v3", "v1", "v2"}, revs)
}
