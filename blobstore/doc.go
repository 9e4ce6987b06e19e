// Package blobstore provides the storage abstraction for solver checkpoints.
//
// Store is the interface for reading and writing checkpoint blobs; a blob is
// written once and read whole, so the surface is deliberately small.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests
//   - LocalStore: local filesystem with atomic, fsynced writes
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible endpoints
//
// CommitStore tracks which checkpoint blob is the latest durable one. The
// s3 package provides a DynamoDB-backed implementation whose conditional
// writes give the atomic pointer swap that S3 itself lacks.
package blobstore
