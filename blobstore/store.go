package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a blob (or commit pointer) does not exist.
//
// Implementations should return an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("blobstore: not found")

// ErrStaleCommit is returned by CommitStore.SetLatest when the given sequence
// is not above the stored one, i.e. another writer committed first.
var ErrStaleCommit = errors.New("blobstore: stale commit")

// Store is an abstraction for checkpoint blob storage.
type Store interface {
	// Put writes a blob atomically; a reader never observes a partial blob.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a whole blob. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all blob names with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// CommitStore tracks the latest durable checkpoint.
//
// SetLatest must be atomic and monotone in seq, so that a crashed or slow
// writer can never move the pointer backwards.
type CommitStore interface {
	// SetLatest records name as the latest checkpoint with the given
	// sequence number. Returns ErrStaleCommit if seq is not above the
	// currently stored sequence.
	SetLatest(ctx context.Context, seq uint64, name string) error

	// Latest returns the most recently committed sequence and blob name.
	// Returns ErrNotFound if nothing was ever committed.
	Latest(ctx context.Context) (uint64, string, error)
}
