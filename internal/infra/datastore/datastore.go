package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
)

// DataStore is an app-facing facade for all catalogue repositories.
type DataStore interface {
	Ping(ctx context.Context) error
	Close() error
	// SetConnPool は接続プール設定を適用します。maxIdle=0 なら解放した接続は毎回閉じられます。
	SetConnPool(maxOpen, maxIdle int)
	// Snapshot runs the strategy's snapshot hook once.
	Snapshot(ctx context.Context) error

	Sports() repository.SportRepository
	Athletes() repository.AthleteRepository
	Teams() repository.TeamRepository
	Games() repository.GamesRepository
	Events() repository.EventRepository
	Participations() repository.ParticipationRepository
}

// Config captures DB driver and DSN-like parameters.
type Config struct {
	Driver   string // e.g. "sqlite" (default)
	Source   string // extra hint for path decisions (e.g., "gcs")
	Path     string // explicit DB file; overrides Source
	Strategy SnapshotStrategy
}

// Open selects and opens a datastore by driver.
func Open(ctx context.Context, cfg Config) (DataStore, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return openSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

// RunPeriodicSnapshot calls ds.Snapshot every interval until ctx is done.
func RunPeriodicSnapshot(ctx context.Context, ds DataStore, every time.Duration, onErr func(error)) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := ds.Snapshot(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}
