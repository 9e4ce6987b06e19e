package checkpoint

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmghannam/scip/blobstore"
)

func testSnapshot(seq uint64) *Snapshot {
	return &Snapshot{
		Sequence:       seq,
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Selector:       "bestbound",
		UpperBound:     42.5,
		IncumbentNode:  4,
		DualBound:      17.25,
		NodesProcessed: 128,
		Nodes: []NodeRecord{
			{Number: 5, Depth: 2, LowerBound: 17.25, Estimate: 20},
			{Number: 6, Depth: 2, LowerBound: 19, Estimate: 22.5},
			{Number: 9, Depth: 3, LowerBound: 21, Estimate: 21},
		},
	}
}

func TestCompressor_RoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("open node frontier "), 200)

	for _, name := range []string{"none", "zstd", "lz4"} {
		t.Run(name, func(t *testing.T) {
			comp, ok := CompressorByName(name)
			require.True(t, ok)
			assert.Equal(t, name, comp.Name())

			compressed, err := comp.Compress(payload)
			require.NoError(t, err)

			restored, err := comp.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, restored)
		})
	}
}

func TestCompressorByName_Unknown(t *testing.T) {
	_, ok := CompressorByName("snappy")
	assert.False(t, ok)
}

func TestManager_SaveLoad(t *testing.T) {
	ctx := context.Background()

	for _, comp := range []Compressor{None{}, Zstd{}, LZ4{}} {
		t.Run(comp.Name(), func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			mgr := NewManager(store, func(o *Options) {
				o.Compressor = comp
			})

			want := testSnapshot(3)

			name, err := mgr.Save(ctx, want)
			require.NoError(t, err)
			assert.Equal(t, "ckpt-000000000003", name)

			got, err := mgr.Load(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestManager_LoadLatest_ByListing(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	mgr := NewManager(store)

	_, err := mgr.Save(ctx, testSnapshot(1))
	require.NoError(t, err)
	_, err = mgr.Save(ctx, testSnapshot(12))
	require.NoError(t, err)
	_, err = mgr.Save(ctx, testSnapshot(2))
	require.NoError(t, err)

	got, err := mgr.LoadLatest(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 12, got.Sequence)
}

func TestManager_LoadLatest_Empty(t *testing.T) {
	mgr := NewManager(blobstore.NewMemoryStore())

	_, err := mgr.LoadLatest(context.Background())
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestManager_CommitStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	commits := blobstore.NewMemoryCommitStore()
	mgr := NewManager(store, func(o *Options) {
		o.CommitStore = commits
	})

	_, err := mgr.Save(ctx, testSnapshot(4))
	require.NoError(t, err)

	seq, name, err := commits.Latest(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, seq)
	assert.Equal(t, "ckpt-000000000004", name)

	got, err := mgr.LoadLatest(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, got.Sequence)

	// An out-of-order save must not move the pointer.
	_, err = mgr.Save(ctx, testSnapshot(2))
	assert.ErrorIs(t, err, blobstore.ErrStaleCommit)

	got, err = mgr.LoadLatest(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, got.Sequence)
}

func TestManager_Mirrors(t *testing.T) {
	ctx := context.Background()
	primary := blobstore.NewMemoryStore()
	mirror := blobstore.NewMemoryStore()
	mgr := NewManager(primary, func(o *Options) {
		o.Mirrors = []blobstore.Store{mirror}
	})

	name, err := mgr.Save(ctx, testSnapshot(7))
	require.NoError(t, err)

	want, err := primary.Get(ctx, name)
	require.NoError(t, err)
	got, err := mirror.Get(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestManager_Retain(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	mgr := NewManager(store, func(o *Options) {
		o.Retain = 2
	})

	for seq := uint64(1); seq <= 5; seq++ {
		_, err := mgr.Save(ctx, testSnapshot(seq))
		require.NoError(t, err)
	}

	names, err := store.List(ctx, "ckpt-")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ckpt-000000000004", "ckpt-000000000005"}, names)
}

func TestManager_Load_Corrupt(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	mgr := NewManager(store)

	require.NoError(t, store.Put(ctx, "ckpt-bad", []byte("not a snapshot")))

	_, err := mgr.Load(ctx, "ckpt-bad")
	assert.ErrorIs(t, err, ErrCorrupt)
}
