package storage

import "context"

// ObjectStore abstracts a minimal object-storage API used for catalogue snapshots.
type ObjectStore interface {
	// DownloadIfNeeded fetches object into dest; a missing object leaves an
	// empty dest file so SQLite starts a fresh catalogue.
	DownloadIfNeeded(ctx context.Context, bucket, object, dest string) error
	// UploadTwoPhaseWithBackup uploads localPath to a tmp object, copies it to current,
	// also writes a versioned backup object, then removes the tmp.
	UploadTwoPhaseWithBackup(ctx context.Context, bucket, currentObject, backupObject, localPath string) error
}
