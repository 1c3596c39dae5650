package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
)

// ConnProvider hands out one dedicated connection per unit of work.
// The caller owns the connection and must Close it before returning.
type ConnProvider interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Provider checks connections out of db. With the idle pool set to 0
// (the default from config) a released connection is closed, so no
// connection outlives the operation that opened it.
type Provider struct{ db *sql.DB }

func NewProvider(db *sql.DB) *Provider { return &Provider{db: db} }

func (p *Provider) Conn(ctx context.Context) (*sql.Conn, error) { return p.db.Conn(ctx) }

// querier is satisfied by both *sql.Conn and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func acquire(ctx context.Context, p ConnProvider, table string) (*sql.Conn, error) {
	conn, err := p.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrStorageUnavailable, table, err)
	}
	return conn, nil
}

func release(ctx context.Context, conn *sql.Conn) {
	if err := conn.Close(); err != nil {
		slog.WarnContext(ctx, "catalog: connection close error", slog.Any("error", err))
	}
}

// queryFailed classifies a statement error. Constraint failures (foreign
// key, primary key, check) are also integrity violations.
func queryFailed(table, op string, err error) error {
	if isConstraintErr(err) {
		return fmt.Errorf("%w: %w: %s %s: %w", repository.ErrQueryFailed, repository.ErrIntegrityViolation, op, table, err)
	}
	return fmt.Errorf("%w: %s %s: %w", repository.ErrQueryFailed, op, table, err)
}

func isConstraintErr(err error) bool {
	var se *msqlite.Error
	// 拡張リザルトコードの下位 8bit が基本コード
	return errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// logFailure records a storage failure at the DAO boundary; callers only
// see the classified error.
func logFailure(ctx context.Context, table, op string, err error) {
	slog.ErrorContext(ctx, "catalog: operation failed",
		slog.String("table", table),
		slog.String("op", op),
		slog.String("kind", repository.KindOf(err).String()),
		slog.Any("error", err),
	)
}
