package datastore

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
	sqlitedriver "github.com/kawabatas/olympics-catalog/internal/infra/datastore/sqlite"
)

type sqliteStore struct {
	ctx      context.Context
	db       *sql.DB
	dbPath   string
	strategy SnapshotStrategy

	sports         repository.SportRepository
	athletes       repository.AthleteRepository
	teams          repository.TeamRepository
	games          repository.GamesRepository
	events         repository.EventRepository
	participations repository.ParticipationRepository
}

func (s *sqliteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *sqliteStore) Close() error {
	// 終了時のスナップショットは Strategy に委譲
	if s.strategy != nil {
		if err := s.strategy.OnShutdown(s.ctx, s.dbPath); err != nil {
			slog.ErrorContext(s.ctx, "snapshot shutdown failed", slog.Any("error", err))
		}
	}
	return s.db.Close()
}

// SetConnPool は SQLite の接続プール設定を適用します。
// - maxOpen: 同時に開ける最大接続数
// - maxIdle: アイドル接続の最大数（0 で解放時に必ずクローズ）
func (s *sqliteStore) SetConnPool(maxOpen, maxIdle int) {
	if maxOpen > 0 {
		s.db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle >= 0 {
		s.db.SetMaxIdleConns(maxIdle)
	}
}

func (s *sqliteStore) Snapshot(ctx context.Context) error {
	if s.strategy == nil {
		return nil
	}
	return s.strategy.Snapshot(ctx, s.dbPath)
}

func openSQLite(ctx context.Context, cfg Config) (DataStore, error) {
	dbPath := sqlitedriver.Path(cfg.Source, cfg.Path)
	// 起動時のスナップショットは Strategy に委譲
	if cfg.Strategy != nil {
		if err := cfg.Strategy.OnStartup(ctx, dbPath); err != nil {
			return nil, err
		}
	}
	db, err := sqlitedriver.OpenAndInit(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	// 1 操作 = 1 接続。解放した接続はプールに残さない
	db.SetMaxIdleConns(0)

	conns := sqlitedriver.NewProvider(db)
	return &sqliteStore{
		ctx:            ctx,
		db:             db,
		dbPath:         dbPath,
		strategy:       cfg.Strategy,
		sports:         sqlitedriver.NewSportRepo(conns),
		athletes:       sqlitedriver.NewAthleteRepo(conns),
		teams:          sqlitedriver.NewTeamRepo(conns),
		games:          sqlitedriver.NewGamesRepo(conns),
		events:         sqlitedriver.NewEventRepo(conns),
		participations: sqlitedriver.NewParticipationRepo(conns),
	}, nil
}

func (s *sqliteStore) Sports() repository.SportRepository                 { return s.sports }
func (s *sqliteStore) Athletes() repository.AthleteRepository             { return s.athletes }
func (s *sqliteStore) Teams() repository.TeamRepository                   { return s.teams }
func (s *sqliteStore) Games() repository.GamesRepository                  { return s.games }
func (s *sqliteStore) Events() repository.EventRepository                 { return s.events }
func (s *sqliteStore) Participations() repository.ParticipationRepository { return s.participations }
