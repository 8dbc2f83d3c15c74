package infra

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor defines the contract stores need for executing SQL queries.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// SQLRunner executes labelled queries against a pgx pool, logging each by the
// label from its leading `-- name:` comment line.
type SQLRunner struct {
	Pool   *pgxpool.Pool
	Logger zerolog.Logger
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger}
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	label := queryLabel(query)
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		r.Logger.Error().Err(err).Msgf("sql[%s] exec failed", label)
		return tag, err
	}
	r.Logger.Debug().Msgf("sql[%s] exec ok", label)
	return tag, nil
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	r.Logger.Debug().Msgf("sql[%s] query_row", queryLabel(query))
	return r.Pool.QueryRow(ctx, query, args...)
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	label := queryLabel(query)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		r.Logger.Error().Err(err).Msgf("sql[%s] query failed", label)
		return nil, err
	}
	r.Logger.Debug().Msgf("sql[%s] query ok", label)
	return rows, nil
}

// IsNoRows reports whether the error is pgx's empty-result sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func queryLabel(query string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(query), "\n")
	if name, ok := strings.CutPrefix(line, "-- name:"); ok {
		return strings.TrimSpace(name)
	}
	return "unnamed"
}
