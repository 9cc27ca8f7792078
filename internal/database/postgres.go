package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/config"
	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/pkg/retry"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo is the postgres step of the lookup chain.
type Repo struct {
	db     dbtx
	tables config.Tables
}

func New(db dbtx, t config.Tables) *Repo { return &Repo{db: db, tables: t} }

// Connect opens a pool with query tracing and pings it under the retry
// policy.
func Connect(ctx context.Context, dsn string, policy config.Retry, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newZapTracer(logger),
		LogLevel: tracelog.LogLevelInfo,
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := retry.Do(ctx, policy, func() error { return pool.Ping(ctx) }); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func (r *Repo) Name() string { return "repository" }

func (r *Repo) qt(tbl string) string { return fmt.Sprintf(`"%s"."%s"`, r.tables.Schema, tbl) }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
		  id         BIGINT PRIMARY KEY,
		  name       TEXT NOT NULL,
		  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, r.qt(r.tables.User)))
	return err
}

func (r *Repo) Fetch(ctx context.Context, id int64) (domain.User, bool, error) {
	var (
		uid  int64
		name string
	)
	err := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, name FROM %s WHERE id=$1
	`, r.qt(r.tables.User)), id).Scan(&uid, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return domain.NewUser(uid, name), true, nil
}

func (r *Repo) Store(ctx context.Context, user domain.User) error {
	_, err := r.db.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET
		  name=EXCLUDED.name,
		  updated_at=EXCLUDED.updated_at
	`, r.qt(r.tables.User)), user.ID(), user.Name())
	return err
}

func (r *Repo) RecentUserIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id FROM %s
		ORDER BY updated_at DESC
		LIMIT $1
	`, r.qt(r.tables.User)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
