package sqlite

import (
	"slices"
	"strings"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
)

type scanner interface {
	Scan(dest ...any) error
}

// Reference is a column in another table holding a foreign key to the owner.
type Reference struct {
	Table  string
	Column string
}

func (r Reference) existsSQL() string {
	return "SELECT EXISTS(SELECT 1 FROM " + r.Table + " WHERE " + r.Column + " = ?)"
}

// Table maps one entity type onto one table.
//
// CRITICAL: Values must return the fields in Columns order, and Scan must
// read the key followed by Columns. References must list every table with a
// foreign key to Key; a missing entry lets IsDeletable allow orphaning deletes.
type Table[T model.Entity] struct {
	Name       string
	Key        string
	Columns    []string
	Scan       func(sc scanner) (T, error)
	Values     func(e T) []any
	References []Reference
}

func (t Table[T]) selectSQL() string {
	return "SELECT " + t.Key + ", " + strings.Join(t.Columns, ", ") + " FROM " + t.Name
}

func (t Table[T]) insertSQL() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	return "INSERT INTO " + t.Name + " (" + strings.Join(t.Columns, ", ") + ") VALUES (" + marks + ")"
}

func (t Table[T]) updateSQL() string {
	sets := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		sets[i] = c + " = ?"
	}
	return "UPDATE " + t.Name + " SET " + strings.Join(sets, ", ") + " WHERE " + t.Key + " = ?"
}

func (t Table[T]) deleteSQL() string {
	return "DELETE FROM " + t.Name + " WHERE " + t.Key + " = ?"
}

func (t Table[T]) hasColumn(c string) bool {
	return c == t.Key || slices.Contains(t.Columns, c)
}
