package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const FileName = "olympics.sqlite"

// Path decides DB file path for given source.
// - explicit: use it as is
// - "gcs": use /tmp for Cloud Run ephemeral FS
// - otherwise: local ./tmp
func Path(source, explicit string) string {
	if explicit != "" {
		_ = os.MkdirAll(filepath.Dir(explicit), 0755)
		return explicit
	}
	if source == "gcs" {
		return filepath.Join("/tmp", FileName)
	}
	_ = os.MkdirAll("./tmp", 0755)
	return filepath.Join("./tmp", FileName)
}

// PRAGMAの意味:
//
//	journal_mode=WAL: 同時実行性向上のためWALモードを有効化
//	synchronous=NORMAL: 性能と耐障害性のバランスを取る
//	busy_timeout: ロック競合時の自動リトライ待機時間（ms）
//	foreign_keys: 参照整合性を DB 側でも強制する
//
// _txlock=immediate makes BeginTx take the write lock up front, so a
// check-then-delete transaction cannot be invalidated between its steps.
const busyTimeoutMs = 2000 // HTTPリクエストタイムアウト(2s)に合わせる

func dsnWithPragma(path string) string {
	return fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_txlock=immediate", path, busyTimeoutMs)
}

// OpenAndInit opens the catalogue database and makes sure every table exists.
func OpenAndInit(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsnWithPragma(path))
	if err != nil {
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Referencing tables must be registered in the owning Table's References
// (see *_repo.go), otherwise IsDeletable cannot see them.
const schema = `
CREATE TABLE IF NOT EXISTS Deporte (
  id_deporte INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS Deportista (
  id_deportista INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL,
  sexo TEXT NOT NULL CHECK (sexo IN ('M', 'F')),
  peso INTEGER NOT NULL,
  altura INTEGER NOT NULL,
  foto BLOB
);
CREATE TABLE IF NOT EXISTS Equipo (
  id_equipo INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL,
  iniciales TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS Olimpiada (
  id_olimpiada INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL,
  anio INTEGER NOT NULL,
  temporada TEXT NOT NULL CHECK (temporada IN ('Summer', 'Winter')),
  ciudad TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS Evento (
  id_evento INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL,
  id_olimpiada INTEGER NOT NULL REFERENCES Olimpiada(id_olimpiada),
  id_deporte INTEGER NOT NULL REFERENCES Deporte(id_deporte)
);
CREATE TABLE IF NOT EXISTS Participacion (
  id_deportista INTEGER NOT NULL REFERENCES Deportista(id_deportista),
  id_evento INTEGER NOT NULL REFERENCES Evento(id_evento),
  id_equipo INTEGER NOT NULL REFERENCES Equipo(id_equipo),
  edad INTEGER NOT NULL,
  medalla TEXT CHECK (medalla IN ('Gold', 'Silver', 'Bronze')),
  PRIMARY KEY (id_deportista, id_evento)
);
CREATE INDEX IF NOT EXISTS idx_evento_deporte ON Evento(id_deporte);
CREATE INDEX IF NOT EXISTS idx_evento_olimpiada ON Evento(id_olimpiada);
CREATE INDEX IF NOT EXISTS idx_participacion_evento ON Participacion(id_evento);
CREATE INDEX IF NOT EXISTS idx_participacion_equipo ON Participacion(id_equipo);
`

func initSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SnapshotTo は VACUUM INTO を用いて、SQLite DB の一貫したスナップショットを作成します。
//
// 注記:
//   - pure Go のドライバ（modernc.org/sqlite）では Online Backup API が直接は提供されていないため、
//     VACUUM INTO によるスナップショット方式を採用しています。
//   - outPath は信頼できるパスのみを渡すこと（VACUUM INTO はパラメータ化できないためSQLインジェクション注意）。
//   - VACUUM INTO は出力先が既に存在すると失敗します。
func SnapshotTo(ctx context.Context, dbPath, outPath string) error {
	const (
		maxRetries    = 3
		baseBackoffMs = 200
	)

	db, err := sql.Open("sqlite", dsnWithPragma(dbPath))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			slog.WarnContext(ctx, "snapshot: db close error", slog.Any("error", cerr))
		}
	}()

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		// WALファイル肥大化対策: チェックポイントでWALをtruncate
		_, _ = db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);")
		vacuumSQL := fmt.Sprintf(`VACUUM INTO '%s';`, strings.ReplaceAll(outPath, "'", "''"))
		_, err := db.ExecContext(ctx, vacuumSQL)
		if err == nil {
			slog.InfoContext(ctx, "snapshot: success", slog.Int("attempt", i+1), slog.String("out", outPath))
			return nil
		}
		lastErr = err
		if !isBusyErr(err) {
			slog.ErrorContext(ctx, "snapshot: failed", slog.Int("attempt", i+1), slog.Any("error", err))
			return err
		}
		backoff := baseBackoffMs * (i + 1)
		slog.WarnContext(ctx, "snapshot: busy, retrying", slog.Int("attempt", i+1), slog.Int("sleep_ms", backoff), slog.Any("error", err))
		select {
		case <-timeAfter(ctx, backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	slog.ErrorContext(ctx, "snapshot: all retries failed", slog.Any("error", lastErr))
	return lastErr
}

// isBusyErr は SQLITE_BUSY（"database is locked"）系エラーを判定します。
func isBusyErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "SQLITE_BUSY") || strings.Contains(s, "database is locked")
}

// timeAfter は ms ミリ秒待機するか、ctx が終了したら返します。
func timeAfter(ctx context.Context, ms int) <-chan struct{} {
	ch := make(chan struct{})
	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	go func() {
		defer close(ch)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}()
	return ch
}
