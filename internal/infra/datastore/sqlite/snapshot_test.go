package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/infra/storage/local"
	"github.com/kawabatas/olympics-catalog/internal/util/clock"
)

func TestSnapshotTo(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.sqlite")
	db, err := OpenAndInit(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSportRepo(NewProvider(db)).Insert(context.Background(), model.Sport{Name: "Handball"})
	require.NoError(t, err)

	out := filepath.Join(dir, "snap.sqlite")
	require.NoError(t, SnapshotTo(context.Background(), dbPath, out))

	snap, err := sql.Open("sqlite", out)
	require.NoError(t, err)
	defer snap.Close()
	var n int
	require.NoError(t, snap.QueryRow(`SELECT COUNT(*) FROM Deporte`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestLocalSnapshotStrategy(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.sqlite")
	db, err := OpenAndInit(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	out := filepath.Join(dir, "backups")
	s := LocalSnapshotStrategy{OutputDir: out}
	require.NoError(t, s.OnStartup(context.Background(), dbPath))
	require.NoError(t, s.OnShutdown(context.Background(), dbPath))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalSnapshotStrategyPrunes(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.sqlite")
	db, err := OpenAndInit(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	out := filepath.Join(dir, "backups")
	s := LocalSnapshotStrategy{OutputDir: out, Keep: 2}
	start := time.Date(2024, 7, 26, 19, 30, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		restore := clock.Set(clock.Fixed(start.Add(time.Duration(i) * time.Second)))
		require.NoError(t, s.Snapshot(context.Background(), dbPath))
		restore()
	}

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "catalog-snapshot-20240726-193002.000.sqlite", entries[0].Name())
	assert.Equal(t, "catalog-snapshot-20240726-193003.000.sqlite", entries[1].Name())
}

func TestGCSSnapshotStrategyWithDirStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	restore := clock.Set(clock.Fixed(time.Date(2024, 7, 26, 19, 30, 0, 0, time.UTC)))
	defer restore()

	s := GCSSnapshotStrategy{ObjectStore: local.Dir{Root: root}, Bucket: "olympics", TmpDir: t.TempDir()}
	dbPath := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, s.OnStartup(ctx, dbPath))

	db, err := OpenAndInit(ctx, dbPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = NewTeamRepo(NewProvider(db)).Insert(ctx, model.Team{Name: "Norway", Initials: "NOR"})
	require.NoError(t, err)

	require.NoError(t, s.Snapshot(ctx, dbPath))

	for _, p := range []string{
		filepath.Join(root, "olympics", FileName),
		filepath.Join(root, "olympics", "backups", "2024-07-26", "193000-"+FileName),
	} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	tmp, err := os.ReadDir(s.TmpDir)
	require.NoError(t, err)
	assert.Empty(t, tmp)

	restored := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, s.OnStartup(ctx, restored))
	snap, err := sql.Open("sqlite", restored)
	require.NoError(t, err)
	defer snap.Close()
	var n int
	require.NoError(t, snap.QueryRow(`SELECT COUNT(*) FROM Equipo`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestPath(t *testing.T) {
	explicit := filepath.Join(t.TempDir(), "nested", "x.sqlite")
	assert.Equal(t, explicit, Path("gcs", explicit))
	assert.Equal(t, filepath.Join("/tmp", FileName), Path("gcs", ""))
}
