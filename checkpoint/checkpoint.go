package checkpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmghannam/scip/blobstore"
)

// FormatVersion is the current snapshot format version.
const FormatVersion = 1

// magic identifies a checkpoint blob. Followed by a length-prefixed
// compressor name and the compressed JSON payload.
var magic = []byte{'S', 'C', 'K', FormatVersion}

// ErrCorrupt is returned when a blob is not a valid checkpoint.
var ErrCorrupt = errors.New("checkpoint: corrupt snapshot")

// NodeRecord is the persisted form of one open node.
type NodeRecord struct {
	Number     uint64  `json:"number"`
	Depth      int     `json:"depth"`
	LowerBound float64 `json:"lowerBound"`
	Estimate   float64 `json:"estimate"`
}

// Snapshot captures the state needed to resume a solve: the open-node
// frontier plus the incumbent and dual bounds at the time of capture.
type Snapshot struct {
	Sequence       uint64       `json:"sequence"`
	CreatedAt      time.Time    `json:"createdAt"`
	Selector       string       `json:"selector"`
	UpperBound     float64      `json:"upperBound"`
	IncumbentNode  uint64       `json:"incumbentNode"`
	DualBound      float64      `json:"dualBound"`
	NodesProcessed uint64       `json:"nodesProcessed"`
	Nodes          []NodeRecord `json:"nodes"`
}

// Name returns the blob name for the snapshot. Names sort lexicographically
// by sequence, so the newest snapshot is the last one in a listing.
func (s *Snapshot) Name() string {
	return fmt.Sprintf("ckpt-%012d", s.Sequence)
}

// Options configures a Manager.
type Options struct {
	// Compressor applied to snapshot payloads. Defaults to DefaultCompressor.
	Compressor Compressor

	// Mirrors receive a copy of every snapshot, written concurrently with
	// the primary store. A failed mirror write fails the whole save.
	Mirrors []blobstore.Store

	// CommitStore tracks the latest durable snapshot. Optional; without it,
	// LoadLatest falls back to listing the primary store.
	CommitStore blobstore.CommitStore

	// Retain is the number of old snapshots kept in the primary store after
	// a successful save. Zero keeps everything.
	Retain int
}

// Manager writes and reads snapshots through a blob store.
type Manager struct {
	store blobstore.Store
	opts  Options
}

// NewManager creates a checkpoint manager on top of the given primary store.
func NewManager(store blobstore.Store, optFns ...func(*Options)) *Manager {
	opts := Options{
		Compressor: DefaultCompressor,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Manager{
		store: store,
		opts:  opts,
	}
}

// Save encodes the snapshot, writes it to the primary store and all mirrors,
// and commits the pointer. It returns the blob name the snapshot was stored
// under.
func (m *Manager) Save(ctx context.Context, snap *Snapshot) (string, error) {
	data, err := m.encode(snap)
	if err != nil {
		return "", err
	}

	name := snap.Name()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.store.Put(gctx, name, data)
	})

	for _, mirror := range m.opts.Mirrors {
		g.Go(func() error {
			return mirror.Put(gctx, name, data)
		})
	}

	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", name, err)
	}

	// The pointer moves only after every replica holds the blob.
	if m.opts.CommitStore != nil {
		if err := m.opts.CommitStore.SetLatest(ctx, snap.Sequence, name); err != nil {
			return "", err
		}
	}

	if m.opts.Retain > 0 {
		if err := m.prune(ctx, name); err != nil {
			return "", err
		}
	}

	return name, nil
}

// Load reads and decodes the named snapshot from the primary store.
func (m *Manager) Load(ctx context.Context, name string) (*Snapshot, error) {
	data, err := m.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.decode(data)
}

// LoadLatest returns the most recent snapshot. With a commit store it follows
// the committed pointer; otherwise it picks the highest-named blob in the
// primary store. Returns blobstore.ErrNotFound when no snapshot exists.
func (m *Manager) LoadLatest(ctx context.Context) (*Snapshot, error) {
	if m.opts.CommitStore != nil {
		_, name, err := m.opts.CommitStore.Latest(ctx)
		if err != nil {
			return nil, err
		}
		return m.Load(ctx, name)
	}

	names, err := m.store.List(ctx, "ckpt-")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, blobstore.ErrNotFound
	}

	sort.Strings(names)
	return m.Load(ctx, names[len(names)-1])
}

// prune deletes old snapshots from the primary store, keeping the newest
// Retain blobs. Mirrors are left untouched.
func (m *Manager) prune(ctx context.Context, latest string) error {
	names, err := m.store.List(ctx, "ckpt-")
	if err != nil {
		return err
	}

	sort.Strings(names)

	excess := len(names) - m.opts.Retain
	for _, name := range names[:max(excess, 0)] {
		if name == latest {
			continue
		}
		if err := m.store.Delete(ctx, name); err != nil {
			return fmt.Errorf("prune snapshot %s: %w", name, err)
		}
	}
	return nil
}

func (m *Manager) encode(snap *Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	compressed, err := m.opts.Compressor.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}

	compName := m.opts.Compressor.Name()

	var buf bytes.Buffer
	buf.Grow(len(magic) + 1 + len(compName) + len(compressed))
	buf.Write(magic)
	buf.WriteByte(byte(len(compName)))
	buf.WriteString(compName)
	buf.Write(compressed)

	return buf.Bytes(), nil
}

func (m *Manager) decode(data []byte) (*Snapshot, error) {
	if len(data) < len(magic)+1 || !bytes.Equal(data[:len(magic)], magic) {
		return nil, ErrCorrupt
	}
	data = data[len(magic):]

	nameLen := int(data[0])
	if len(data) < 1+nameLen {
		return nil, ErrCorrupt
	}
	compName := string(data[1 : 1+nameLen])

	comp, ok := CompressorByName(compName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown compressor %q", ErrCorrupt, compName)
	}

	payload, err := comp.Decompress(data[1+nameLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &snap, nil
}
