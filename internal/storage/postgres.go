package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/legalaudit/crvc/pkg/errors"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (ps *PostgresStore) Close() error { return ps.db.Close() }

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		citations JSONB,
		resolutions JSONB,
		error TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		started_at TIMESTAMP,
		completed_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
	`
	_, err := ps.db.Exec(schema)
	return err
}

func (ps *PostgresStore) SaveJob(ctx context.Context, job *Job) error {
	citations, err := json.Marshal(job.Citations)
	if err != nil {
		return errors.StorageError("marshal citations", err)
	}
	resolutions, err := json.Marshal(job.Resolutions)
	if err != nil {
		return errors.StorageError("marshal resolutions", err)
	}
	_, err = ps.db.ExecContext(ctx, `
		INSERT INTO jobs (id, status, citations, resolutions, error, created_at, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, job.Status, citations, resolutions, job.Error, job.CreatedAt, job.StartedAt, job.CompletedAt)
	if err != nil {
		return errors.StorageError("save job", err)
	}
	return nil
}

func (ps *PostgresStore) GetJob(ctx context.Context, id string) (*Job, error) {
	row := ps.db.QueryRowContext(ctx, `
		SELECT id, status, citations, resolutions, error, created_at, started_at, completed_at
		FROM jobs WHERE id = $1`, id)
	return scanJobRow(row)
}

func (ps *PostgresStore) UpdateJob(ctx context.Context, job *Job) error {
	citations, err := json.Marshal(job.Citations)
	if err != nil {
		return errors.StorageError("marshal citations", err)
	}
	resolutions, err := json.Marshal(job.Resolutions)
	if err != nil {
		return errors.StorageError("marshal resolutions", err)
	}
	res, err := ps.db.ExecContext(ctx, `
		UPDATE jobs SET status = $2, citations = $3, resolutions = $4, error = $5,
			started_at = $6, completed_at = $7
		WHERE id = $1`,
		job.ID, job.Status, citations, resolutions, job.Error, job.StartedAt, job.CompletedAt)
	if err != nil {
		return errors.StorageError("update job", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.StorageError("job not found", errors.ErrNotFound)
	}
	return nil
}

func (ps *PostgresStore) ListJobs(ctx context.Context, filter JobFilter) ([]*Job, error) {
	query := `SELECT id, status, citations, resolutions, error, created_at, started_at, completed_at FROM jobs`
	var args []interface{}
	var conds []string
	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.StorageError("list jobs", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (ps *PostgresStore) DeleteJob(ctx context.Context, id string) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return errors.StorageError("delete job", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.StorageError("job not found", errors.ErrNotFound)
	}
	return nil
}

func (ps *PostgresStore) Ping(ctx context.Context) error {
	return ps.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJobRow(row rowScanner) (*Job, error) {
	var job Job
	var citations, resolutions []byte
	err := row.Scan(&job.ID, &job.Status, &citations, &resolutions, &job.Error,
		&job.CreatedAt, &job.StartedAt, &job.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, errors.StorageError("job not found", errors.ErrNotFound)
	}
	if err != nil {
		return nil, errors.StorageError("scan job", err)
	}
	if len(citations) > 0 {
		if err := json.Unmarshal(citations, &job.Citations); err != nil {
			return nil, errors.StorageError("unmarshal citations", err)
		}
	}
	if len(resolutions) > 0 {
		if err := json.Unmarshal(resolutions, &job.Resolutions); err != nil {
			return nil, errors.StorageError("unmarshal resolutions", err)
		}
	}
	return &job, nil
}
