package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"

	storageif "github.com/kawabatas/olympics-catalog/internal/infra/storage"
	"github.com/kawabatas/olympics-catalog/internal/util/clock"
)

// Adapter implements storage.ObjectStore on Google Cloud Storage.
// 起動・終了・定期スナップショットでのみ使うため GCS クライアントは都度生成します。
type Adapter struct{}

var _ storageif.ObjectStore = (*Adapter)(nil)

func (a *Adapter) DownloadIfNeeded(ctx context.Context, bucket, object, dest string) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		// オブジェクトが存在しない場合は空ファイル作成し、nil を返す
		if errors.Is(err, storage.ErrObjectNotExist) {
			slog.WarnContext(ctx, fmt.Sprintf("catalogue file is not found on GCS, so create new file: %s", object))
			return touch(dest)
		}
		return err
	}
	defer rc.Close()

	// .part に書き切ってから rename し、途中で落ちても壊れた DB を開かない
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	part := dest + ".part"
	out, err := os.Create(part)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		_ = os.Remove(part)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(part)
		return err
	}
	slog.InfoContext(ctx, "catalogue restored from GCS", slog.String("bucket", bucket), slog.String("object", object), slog.Int64("generation", rc.Attrs.Generation))
	return os.Rename(part, dest)
}

// UploadTwoPhaseWithBackup implements two-phase publish and versioned backup.
func (a *Adapter) UploadTwoPhaseWithBackup(ctx context.Context, bucket, currentObject, backupObject, localPath string) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	bkt := client.Bucket(bucket)

	// 1. upload to tmp object
	tmp := bkt.Object(clock.TempObject(currentObject))
	if err := upload(ctx, tmp, localPath); err != nil {
		return err
	}

	// 2. copy tmp -> current, 3. copy tmp -> backups/yyyy-mm-dd/HHMMSS-<base>
	if backupObject == "" {
		backupObject = clock.BackupObject(currentObject)
	}
	for _, name := range []string{currentObject, backupObject} {
		if _, err := bkt.Object(name).CopierFrom(tmp).Run(ctx); err != nil {
			_ = tmp.Delete(ctx)
			return fmt.Errorf("copy to %s: %w", name, err)
		}
	}

	// 4. delete tmp
	return tmp.Delete(ctx)
}

func upload(ctx context.Context, obj *storage.ObjectHandle, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	wc := obj.NewWriter(ctx)
	wc.ContentType = "application/vnd.sqlite3"
	if _, err := io.Copy(wc, f); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
