// Package storage holds recording audio in an object store.
//
// Backends register themselves by provider name:
//
//   - storage/local: a directory on disk
//   - storage/s3: Amazon S3 or an S3-compatible service such as MinIO
//
// Configuration:
//
//	storage:
//	  provider: s3
//	  bucket: scribe-audio
//	  endpoint: http://localhost:9000
package storage
