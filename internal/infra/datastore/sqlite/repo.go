package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
)

var errNoRowsAffected = errors.New("no rows affected")

// Repo is the CRUD + integrity-check implementation shared by every
// catalogue table. Each call acquires exactly one connection from conns and
// releases it before returning.
type Repo[T model.Entity] struct {
	conns ConnProvider
	table Table[T]
}

var _ repository.CatalogRepository[model.Sport] = (*Repo[model.Sport])(nil)

func NewRepo[T model.Entity](conns ConnProvider, table Table[T]) *Repo[T] {
	return &Repo[T]{conns: conns, table: table}
}

// Filter narrows List to rows where Column equals Value, or matches it as a
// LIKE pattern with \ as the escape character. Column must belong to the table.
type Filter struct {
	Column string
	Value  any
	Like   bool
}

func (r *Repo[T]) List(ctx context.Context) ([]T, error) {
	return r.query(ctx, "list", "", nil)
}

func (r *Repo[T]) ListWhere(ctx context.Context, f Filter) ([]T, error) {
	if !r.table.hasColumn(f.Column) {
		return []T{}, fmt.Errorf("%w: %s has no column %q", repository.ErrQueryFailed, r.table.Name, f.Column)
	}
	op := " = ?"
	if f.Like {
		op = ` LIKE ? ESCAPE '\'`
	}
	return r.query(ctx, "list", " WHERE "+f.Column+op, []any{f.Value})
}

func (r *Repo[T]) query(ctx context.Context, op, where string, args []any) ([]T, error) {
	out := []T{}
	conn, err := acquire(ctx, r.conns, r.table.Name)
	if err != nil {
		logFailure(ctx, r.table.Name, op, err)
		return out, err
	}
	defer release(ctx, conn)

	rows, err := conn.QueryContext(ctx, r.table.selectSQL()+where+" ORDER BY "+r.table.Key, args...)
	if err != nil {
		return out, r.fail(ctx, op, err)
	}
	defer rows.Close()
	for rows.Next() {
		e, err := r.table.Scan(rows)
		if err != nil {
			return []T{}, r.fail(ctx, op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return []T{}, r.fail(ctx, op, err)
	}
	return out, nil
}

func (r *Repo[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	conn, err := acquire(ctx, r.conns, r.table.Name)
	if err != nil {
		logFailure(ctx, r.table.Name, "get", err)
		return zero, err
	}
	defer release(ctx, conn)

	row := conn.QueryRowContext(ctx, r.table.selectSQL()+" WHERE "+r.table.Key+" = ?", id)
	e, err := r.table.Scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%s %d: %w", r.table.Name, id, repository.ErrNotFound)
	}
	if err != nil {
		return zero, r.fail(ctx, "get", err)
	}
	return e, nil
}

// Insert ignores e's key; the generated key is the returned value.
func (r *Repo[T]) Insert(ctx context.Context, e T) (int64, error) {
	conn, err := acquire(ctx, r.conns, r.table.Name)
	if err != nil {
		logFailure(ctx, r.table.Name, "insert", err)
		return model.InvalidID, err
	}
	defer release(ctx, conn)

	res, err := conn.ExecContext(ctx, r.table.insertSQL(), r.table.Values(e)...)
	if err != nil {
		return model.InvalidID, r.fail(ctx, "insert", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return model.InvalidID, r.fail(ctx, "insert", errors.Join(errNoRowsAffected, err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.InvalidID, r.fail(ctx, "insert", err)
	}
	if id <= 0 {
		return model.InvalidID, r.fail(ctx, "insert", fmt.Errorf("unexpected generated key %d", id))
	}
	return id, nil
}

func (r *Repo[T]) Update(ctx context.Context, original, replacement T) error {
	args := append(r.table.Values(replacement), original.Key())
	return r.exec(ctx, "update", r.table.updateSQL(), original.Key(), args...)
}

func (r *Repo[T]) Delete(ctx context.Context, e T) error {
	return r.exec(ctx, "delete", r.table.deleteSQL(), e.Key(), e.Key())
}

// exec runs a single-row statement; zero affected rows means the key was not found.
func (r *Repo[T]) exec(ctx context.Context, op, stmt string, id int64, args ...any) error {
	conn, err := acquire(ctx, r.conns, r.table.Name)
	if err != nil {
		logFailure(ctx, r.table.Name, op, err)
		return err
	}
	defer release(ctx, conn)

	res, err := conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return r.fail(ctx, op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.fail(ctx, op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", r.table.Name, id, repository.ErrNotFound)
	}
	return nil
}

// IsDeletable checks every registered reference. A check that cannot be
// completed reports false.
func (r *Repo[T]) IsDeletable(ctx context.Context, e T) (bool, error) {
	if e.Key() == 0 {
		return false, fmt.Errorf("%s: transient entity: %w", r.table.Name, repository.ErrNotFound)
	}
	conn, err := acquire(ctx, r.conns, r.table.Name)
	if err != nil {
		logFailure(ctx, r.table.Name, "is_deletable", err)
		return false, err
	}
	defer release(ctx, conn)

	ref, err := r.referencedBy(ctx, conn, e.Key())
	if err != nil {
		return false, r.fail(ctx, "is_deletable", err)
	}
	return ref == "", nil
}

// DeleteIfUnreferenced runs the reference checks and the delete in one
// transaction, so no referencing row can slip in between them.
func (r *Repo[T]) DeleteIfUnreferenced(ctx context.Context, e T) (err error) {
	if e.Key() == 0 {
		return fmt.Errorf("%s: transient entity: %w", r.table.Name, repository.ErrNotFound)
	}
	conn, err := acquire(ctx, r.conns, r.table.Name)
	if err != nil {
		logFailure(ctx, r.table.Name, "delete", err)
		return err
	}
	defer release(ctx, conn)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return r.fail(ctx, "delete", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ref, err := r.referencedBy(ctx, tx, e.Key())
	if err != nil {
		return r.fail(ctx, "delete", err)
	}
	if ref != "" {
		return fmt.Errorf("%s %d referenced by %s: %w", r.table.Name, e.Key(), ref, repository.ErrIntegrityViolation)
	}
	res, err := tx.ExecContext(ctx, r.table.deleteSQL(), e.Key())
	if err != nil {
		return r.fail(ctx, "delete", err)
	}
	if n, rerr := res.RowsAffected(); rerr != nil {
		return r.fail(ctx, "delete", rerr)
	} else if n == 0 {
		return fmt.Errorf("%s %d: %w", r.table.Name, e.Key(), repository.ErrNotFound)
	}
	if err = tx.Commit(); err != nil {
		return r.fail(ctx, "delete", err)
	}
	return nil
}

// referencedBy returns the first referencing table holding id, or "".
func (r *Repo[T]) referencedBy(ctx context.Context, q querier, id int64) (string, error) {
	for _, ref := range r.table.References {
		var exists bool
		if err := q.QueryRowContext(ctx, ref.existsSQL(), id).Scan(&exists); err != nil {
			return "", fmt.Errorf("check %s.%s: %w", ref.Table, ref.Column, err)
		}
		if exists {
			return ref.Table, nil
		}
	}
	return "", nil
}

func (r *Repo[T]) fail(ctx context.Context, op string, err error) error {
	err = queryFailed(r.table.Name, op, err)
	logFailure(ctx, r.table.Name, op, err)
	return err
}
