package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	storageif "github.com/kawabatas/olympics-catalog/internal/infra/storage"
	"github.com/kawabatas/olympics-catalog/internal/util/clock"
)

// GCSSnapshotStrategy keeps the catalogue file in an ObjectStore bucket
// (GCS, or a directory with STORAGE_PROVIDER=dir).
//   - OnStartup: FileName をローカルにダウンロード（無ければ空の DB で開始）
//   - Snapshot: VACUUM INTO で一貫スナップショット → 二相アップロード + backups/ に保管
type GCSSnapshotStrategy struct {
	ObjectStore storageif.ObjectStore
	Bucket      string
	// TmpDir holds the local VACUUM INTO output; defaults to os.TempDir().
	TmpDir string
}

func (s GCSSnapshotStrategy) enabled() bool { return s.ObjectStore != nil && s.Bucket != "" }

func (s GCSSnapshotStrategy) OnStartup(ctx context.Context, dbPath string) error {
	if !s.enabled() {
		return nil
	}
	return s.ObjectStore.DownloadIfNeeded(ctx, s.Bucket, FileName, dbPath)
}

func (s GCSSnapshotStrategy) OnShutdown(ctx context.Context, dbPath string) error {
	return s.Snapshot(ctx, dbPath)
}

func (s GCSSnapshotStrategy) Snapshot(ctx context.Context, dbPath string) error {
	if !s.enabled() {
		return nil
	}
	dir := s.TmpDir
	if dir == "" {
		dir = os.TempDir()
	}
	snap := filepath.Join(dir, clock.SnapshotFile("catalog-upload", true))
	if err := SnapshotTo(ctx, dbPath, snap); err != nil {
		return err
	}
	defer func() {
		// アップロード後はローカルの一時ファイルを残さない
		if err := os.Remove(snap); err != nil {
			slog.WarnContext(ctx, "snapshot: tmp cleanup failed", slog.String("path", snap), slog.Any("error", err))
		}
	}()
	return s.ObjectStore.UploadTwoPhaseWithBackup(ctx, s.Bucket, FileName, clock.BackupObject(FileName), snap)
}
