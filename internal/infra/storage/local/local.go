package local

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	storageif "github.com/kawabatas/olympics-catalog/internal/infra/storage"
	"github.com/kawabatas/olympics-catalog/internal/util/clock"
)

// Noop implements ObjectStore with no-ops for local usage.
type Noop struct{}

func (Noop) DownloadIfNeeded(ctx context.Context, bucket, object, dest string) error { return nil }
func (Noop) UploadTwoPhaseWithBackup(ctx context.Context, bucket, currentObject, backupObject, localPath string) error {
	return nil
}

// Dir is an ObjectStore backed by a local directory: objects live at
// Root/<bucket>/<object>. Used for offline snapshot sync and in tests.
type Dir struct {
	Root string
}

var (
	_ storageif.ObjectStore = Noop{}
	_ storageif.ObjectStore = Dir{}
)

func (d Dir) path(bucket, object string) string {
	return filepath.Join(d.Root, bucket, filepath.FromSlash(object))
}

func (d Dir) DownloadIfNeeded(ctx context.Context, bucket, object, dest string) error {
	src := d.path(bucket, object)
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		return f.Close()
	}
	return copyFile(src, dest)
}

func (d Dir) UploadTwoPhaseWithBackup(ctx context.Context, bucket, currentObject, backupObject, localPath string) error {
	current := d.path(bucket, currentObject)
	tmp := current + ".tmp"
	if err := copyFile(localPath, tmp); err != nil {
		return err
	}
	if backupObject == "" {
		backupObject = clock.BackupObject(currentObject)
	}
	if err := copyFile(tmp, d.path(bucket, backupObject)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// rename is atomic within one directory
	return os.Rename(tmp, current)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
