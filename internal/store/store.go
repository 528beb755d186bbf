package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/remotepulse/remotepulse/internal/model"
)

// ErrUnknownDriver is returned by Open for an unsupported storage driver.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Open connects the sink for driver and creates the listings and statistics
// tables if they do not exist yet. Driver "none" yields a NopSink.
func Open(ctx context.Context, driver, dsn string, tables Tables, logger *slog.Logger) (model.Sink, error) {
	switch driver {
	case "sqlite":
		s, err := NewSQLiteSink(ctx, dsn, tables)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgresSink(ctx, dsn, tables)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "clickhouse":
		s, err := NewClickHouseSink(ctx, dsn, tables)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none":
		return NewNopSink(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// insertStatement builds "INSERT INTO table (a, b) VALUES (?, ?)".
// An empty placeholder omits the VALUES clause.
func insertStatement(table string, columns []string, placeholder string) (string, error) {
	if !identifier.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	for _, c := range columns {
		if !identifier.MatchString(c) {
			return "", fmt.Errorf("invalid column name %q", c)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s)", table, strings.Join(columns, ", "))
	if placeholder != "" {
		marks := strings.TrimSuffix(strings.Repeat(placeholder+", ", len(columns)), ", ")
		fmt.Fprintf(&b, " VALUES (%s)", marks)
	}
	return b.String(), nil
}

// NopSink discards every row. Used for dry runs.
type NopSink struct {
	logger *slog.Logger
}

// NewNopSink returns a sink that only logs what it would have written.
func NewNopSink(logger *slog.Logger) *NopSink { return &NopSink{logger: logger} }

func (s *NopSink) Append(_ context.Context, table string, data model.Table) error {
	s.logger.Info("dry run, not persisting", "table", table, "rows", data.Len())
	return nil
}

func (s *NopSink) Close() error { return nil }
