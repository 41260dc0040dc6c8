// Package store persists feature tables to PostgreSQL.
//
// A table is written in one transaction: the target table is created if it
// does not exist, then every row is bulk loaded with COPY and tagged with
// the run ID that produced it.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/featureprep/internal/logging"
	"github.com/JonMunkholm/featureprep/internal/table"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// RunIDColumn is prepended to every persisted table.
const RunIDColumn = "run_id"

// ErrReservedColumn is returned when a feature column collides with RunIDColumn.
var ErrReservedColumn = errors.New("column name is reserved")

// DBTX is the subset of pgx shared by pools, connections and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Beginner starts transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store writes feature tables into a single PostgreSQL table.
type Store struct {
	db    Beginner
	ident pgx.Identifier
}

// New returns a Store writing to tableName, which may be schema-qualified.
func New(db Beginner, tableName string) *Store {
	return &Store{db: db, ident: ParseIdentifier(tableName)}
}

// Table returns the sanitized target table name.
func (s *Store) Table() string {
	return s.ident.Sanitize()
}

// Save writes t tagged with runID inside one transaction and returns the
// number of rows copied.
func (s *Store) Save(ctx context.Context, runID string, t *table.Table) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	n, err := SaveTable(ctx, tx, s.ident, runID, t)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.FromContext(ctx).Info("feature table persisted",
		slog.String("table", s.Table()),
		slog.Int64("rows", n),
	)
	return n, nil
}

// SaveTable creates ident if needed and copies every row of t into it.
func SaveTable(ctx context.Context, db DBTX, ident pgx.Identifier, runID string, t *table.Table) (int64, error) {
	var id pgtype.UUID
	if err := id.Scan(runID); err != nil {
		return 0, fmt.Errorf("invalid run ID %q: %w", runID, err)
	}

	ddl, err := CreateTableSQL(ident, t)
	if err != nil {
		return 0, err
	}
	if _, err := db.Exec(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create table %s: %w", ident.Sanitize(), err)
	}

	cols := t.Columns()
	names := append([]string{RunIDColumn}, t.ColumnNames()...)
	src := pgx.CopyFromSlice(t.NumRows(), func(i int) ([]any, error) {
		return rowValues(id, cols, i), nil
	})

	n, err := db.CopyFrom(ctx, ident, names, src)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", ident.Sanitize(), err)
	}
	return n, nil
}

// CreateTableSQL returns the DDL for a table able to hold t.
func CreateTableSQL(ident pgx.Identifier, t *table.Table) (string, error) {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(ident.Sanitize())
	b.WriteString(" (")
	b.WriteString(pgx.Identifier{RunIDColumn}.Sanitize())
	b.WriteString(" uuid NOT NULL")

	for _, c := range t.Columns() {
		if c.Name() == RunIDColumn {
			return "", fmt.Errorf("%w: %q", ErrReservedColumn, c.Name())
		}
		b.WriteString(", ")
		b.WriteString(pgx.Identifier{c.Name()}.Sanitize())
		b.WriteByte(' ')
		b.WriteString(SQLType(c.Type()))
	}

	b.WriteString(")")
	return b.String(), nil
}

// SQLType maps a column type to its PostgreSQL type.
func SQLType(ct table.ColumnType) string {
	if ct == table.TypeNumeric {
		return "double precision"
	}
	return "text"
}

// ParseIdentifier splits a possibly schema-qualified name.
func ParseIdentifier(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}

// rowValues converts row i into COPY values. Missing cells, NaN included,
// become NULL.
func rowValues(id pgtype.UUID, cols []table.Column, i int) []any {
	vals := make([]any, 0, len(cols)+1)
	vals = append(vals, id)
	for _, c := range cols {
		v := c.At(i)
		switch {
		case v.IsMissing():
			vals = append(vals, nil)
		case c.Type() == table.TypeNumeric:
			f, _ := v.Float()
			vals = append(vals, f)
		default:
			vals = append(vals, v.String())
		}
	}
	return vals
}
