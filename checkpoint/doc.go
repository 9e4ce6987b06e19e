// Package checkpoint persists the open-node frontier of a running solve so
// that it can be resumed after a crash or restart.
//
// A Snapshot captures the frontier together with the incumbent and dual
// bounds. Snapshots are serialized as JSON, optionally compressed, and
// written through a blobstore.Store; a blobstore.CommitStore tracks the
// latest durable snapshot so resume never observes a partial write.
package checkpoint
