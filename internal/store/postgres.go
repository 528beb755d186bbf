package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/remotepulse/remotepulse/internal/model"
)

// PostgresSink appends rows to PostgreSQL using the COPY protocol.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects to dsn and ensures both tables exist.
func NewPostgresSink(ctx context.Context, dsn string, tables Tables) (*PostgresSink, error) {
	stmts, err := migrationStatements("postgres", tables)
	if err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply postgres migration: %w", err)
		}
	}

	return &PostgresSink{pool: pool}, nil
}

// Append copies all rows of data into table.
func (s *PostgresSink) Append(ctx context.Context, table string, data model.Table) error {
	if data.Len() == 0 {
		return nil
	}
	// Validates the identifiers; COPY itself quotes them.
	if _, err := insertStatement(table, data.Columns, ""); err != nil {
		return err
	}

	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, data.Columns, pgx.CopyFromRows(data.Rows))
	if err != nil {
		return fmt.Errorf("copy into %s: %w", table, err)
	}
	if int(n) != data.Len() {
		return fmt.Errorf("copy into %s: wrote %d of %d rows", table, n, data.Len())
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
