package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	data := []byte("checkpoint payload")
	require.NoError(t, store.Put(ctx, "ckpt-000000001", data))

	got, err := store.Get(ctx, "ckpt-000000001")
	require.NoError(t, err)
	require.Equal(t, data, got)

	// The store keeps its own copy.
	got[0] = 'X'
	again, err := store.Get(ctx, "ckpt-000000001")
	require.NoError(t, err)
	require.Equal(t, data, again)

	require.NoError(t, store.Put(ctx, "ckpt-000000002", []byte("second")))
	require.NoError(t, store.Put(ctx, "other", []byte("noise")))

	names, err := store.List(ctx, "ckpt-")
	require.NoError(t, err)
	sort.Strings(names)
	require.Equal(t, []string{"ckpt-000000001", "ckpt-000000002"}, names)

	require.NoError(t, store.Delete(ctx, "ckpt-000000001"))
	require.NoError(t, store.Delete(ctx, "ckpt-000000001")) // idempotent
	_, err = store.Get(ctx, "ckpt-000000001")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "ckpts"))
	require.NoError(t, err)

	data := []byte("hello checkpoint")
	require.NoError(t, store.Put(ctx, "ckpt-000000001", data))

	got, err := store.Get(ctx, "ckpt-000000001")
	require.NoError(t, err)
	require.Equal(t, data, got)

	_, err = store.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "ckpt-000000002", []byte("x")))
	names, err := store.List(ctx, "ckpt-")
	require.NoError(t, err)
	sort.Strings(names)
	require.Equal(t, []string{"ckpt-000000001", "ckpt-000000002"}, names)

	require.NoError(t, store.Delete(ctx, "ckpt-000000001"))
	require.NoError(t, store.Delete(ctx, "ckpt-000000001"))
	names, err = store.List(ctx, "ckpt-")
	require.NoError(t, err)
	require.Equal(t, []string{"ckpt-000000002"}, names)
}

func TestLocalStore_PutOverwritesAtomically(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "ckpt", []byte("v1")))
	require.NoError(t, store.Put(ctx, "ckpt", []byte("v2")))

	got, err := store.Get(ctx, "ckpt")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)

	// No temp files left behind.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMemoryCommitStore_Monotone(t *testing.T) {
	ctx := context.Background()
	cs := NewMemoryCommitStore()

	_, _, err := cs.Latest(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, cs.SetLatest(ctx, 1, "ckpt-000000001"))
	require.NoError(t, cs.SetLatest(ctx, 2, "ckpt-000000002"))

	// Stale and duplicate sequences are rejected.
	require.ErrorIs(t, cs.SetLatest(ctx, 2, "ckpt-dup"), ErrStaleCommit)
	require.ErrorIs(t, cs.SetLatest(ctx, 1, "ckpt-old"), ErrStaleCommit)

	seq, name, err := cs.Latest(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, seq)
	require.Equal(t, "ckpt-000000002", name)
}
