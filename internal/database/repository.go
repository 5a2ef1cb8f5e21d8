package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"go-vagas-scraper/internal/scraper"
)

// DB is the part of pgxpool.Pool the repository uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// Repository mirrors scraped jobs into Postgres, one row per job per run.
// Rows are never updated or deduplicated.
type Repository struct {
	db    DB
	runID string
}

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS vagas (
		id                BIGSERIAL PRIMARY KEY,
		run_id            UUID NOT NULL,
		titulo            TEXT NOT NULL,
		link              TEXT NOT NULL,
		local             TEXT NOT NULL,
		salario           TEXT NOT NULL,
		salario_anunciado BOOLEAN NOT NULL,
		fonte             TEXT NOT NULL,
		salario_inf       DOUBLE PRECISION NOT NULL,
		salario_sup       DOUBLE PRECISION NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

const insertJobSQL = `
	INSERT INTO vagas (run_id, titulo, link, local, salario, salario_anunciado, fonte, salario_inf, salario_sup)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func ConnectDB(ctx context.Context, connString, runID string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "database: parse database url")
	}

	config.MaxConns = 2
	config.MaxConnLifetime = time.Hour
	// PgBouncer in transaction mode can't keep prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, eris.Wrap(err, "database: connect")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "database: unreachable")
	}

	return NewRepository(pool, runID), nil
}

func NewRepository(db DB, runID string) *Repository {
	return &Repository{db: db, runID: runID}
}

// EnsureSchema creates the vagas table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createTableSQL); err != nil {
		return eris.Wrap(err, "database: create vagas table")
	}
	return nil
}

func (r *Repository) Name() string {
	return "postgres"
}

// SaveJob inserts job tagged with the current run id
func (r *Repository) SaveJob(ctx context.Context, job scraper.Job) error {
	_, err := r.db.Exec(ctx, insertJobSQL,
		r.runID,
		job.Title,
		job.Link,
		job.Location,
		job.Salary,
		job.SalaryAdvertised,
		job.Source,
		job.SalaryLower,
		job.SalaryUpper,
	)
	if err != nil {
		return eris.Wrap(err, "database: insert job")
	}
	return nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}
