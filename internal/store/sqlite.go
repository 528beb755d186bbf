package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/remotepulse/remotepulse/internal/model"
)

// SQLiteSink appends rows to a local SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at dbPath and ensures both
// tables exist.
func NewSQLiteSink(ctx context.Context, dbPath string, tables Tables) (*SQLiteSink, error) {
	stmts, err := migrationStatements("sqlite", tables)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying sqlite migration: %w", err)
		}
	}

	return &SQLiteSink{db: db}, nil
}

// Append inserts all rows of data into table in one transaction.
func (s *SQLiteSink) Append(ctx context.Context, table string, data model.Table) error {
	if data.Len() == 0 {
		return nil
	}
	query, err := insertStatement(table, data.Columns, "?")
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert into %s: %w", table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", table, err)
	}
	defer stmt.Close()

	for i, row := range data.Rows {
		if _, err := stmt.ExecContext(ctx, sqliteValues(row)...); err != nil {
			return fmt.Errorf("inserting row %d into %s: %w", i, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert into %s: %w", table, err)
	}
	return nil
}

// sqliteValues stores calendar dates as YYYY-MM-DD text.
func sqliteValues(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if t, ok := v.(time.Time); ok {
			out[i] = t.Format(time.DateOnly)
			continue
		}
		out[i] = v
	}
	return out
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
