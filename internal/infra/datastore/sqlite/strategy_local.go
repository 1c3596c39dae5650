package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kawabatas/olympics-catalog/internal/util/clock"
)

const localSnapshotPrefix = "catalog-snapshot"

// LocalSnapshotStrategy writes a snapshot into OutputDir on shutdown and on
// every periodic tick. Keep > 0 prunes all but the newest Keep snapshots.
type LocalSnapshotStrategy struct {
	OutputDir string
	Keep      int
}

func (LocalSnapshotStrategy) OnStartup(ctx context.Context, dbPath string) error { return nil }

func (s LocalSnapshotStrategy) OnShutdown(ctx context.Context, dbPath string) error {
	return s.Snapshot(ctx, dbPath)
}

func (s LocalSnapshotStrategy) Snapshot(ctx context.Context, dbPath string) error {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := SnapshotTo(ctx, dbPath, filepath.Join(dir, clock.SnapshotFile(localSnapshotPrefix, true))); err != nil {
		return err
	}
	return s.prune(ctx)
}

func (s LocalSnapshotStrategy) dir() string {
	if s.OutputDir == "" {
		return filepath.Join("./tmp", "backups")
	}
	return s.OutputDir
}

// prune removes the oldest snapshots beyond Keep. Names sort by time.
func (s LocalSnapshotStrategy) prune(ctx context.Context) error {
	if s.Keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		return err
	}
	var snaps []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), localSnapshotPrefix+"-") {
			snaps = append(snaps, e.Name())
		}
	}
	sort.Strings(snaps)
	for len(snaps) > s.Keep {
		p := filepath.Join(s.dir(), snaps[0])
		if err := os.Remove(p); err != nil {
			return err
		}
		slog.DebugContext(ctx, "snapshot: pruned", slog.String("path", p))
		snaps = snaps[1:]
	}
	return nil
}
