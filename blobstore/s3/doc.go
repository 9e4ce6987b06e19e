// Package s3 provides an Amazon S3 blobstore.Store for solver checkpoints,
// and a DynamoDB-backed blobstore.CommitStore.
//
// S3 has no compare-and-swap, so the "latest checkpoint" pointer lives in a
// DynamoDB item updated with a conditional write. A crashed writer can leave
// an orphaned checkpoint blob behind, but it can never move the pointer to a
// blob that is not fully uploaded, and never backwards.
package s3
