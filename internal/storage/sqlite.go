package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/legalaudit/crvc/pkg/errors"
)

// SQLiteStore implements Store using SQLite, for single-node CLI use
// (spec.md §6's `--job-id` lookups between two CLI invocations on one box).
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (ss *SQLiteStore) Close() error { return ss.db.Close() }

func (ss *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		citations TEXT,
		resolutions TEXT,
		error TEXT,
		created_at DATETIME NOT NULL,
		started_at DATETIME,
		completed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	`
	_, err := ss.db.Exec(schema)
	return err
}

func (ss *SQLiteStore) SaveJob(ctx context.Context, job *Job) error {
	citations, err := json.Marshal(job.Citations)
	if err != nil {
		return errors.StorageError("marshal citations", err)
	}
	resolutions, err := json.Marshal(job.Resolutions)
	if err != nil {
		return errors.StorageError("marshal resolutions", err)
	}
	_, err = ss.db.ExecContext(ctx, `
		INSERT INTO jobs (id, status, citations, resolutions, error, created_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Status, string(citations), string(resolutions), job.Error,
		job.CreatedAt, job.StartedAt, job.CompletedAt)
	if err != nil {
		return errors.StorageError("save job", err)
	}
	return nil
}

func (ss *SQLiteStore) GetJob(ctx context.Context, id string) (*Job, error) {
	row := ss.db.QueryRowContext(ctx, `
		SELECT id, status, citations, resolutions, error, created_at, started_at, completed_at
		FROM jobs WHERE id = ?`, id)
	return scanJobRow(row)
}

func (ss *SQLiteStore) UpdateJob(ctx context.Context, job *Job) error {
	citations, err := json.Marshal(job.Citations)
	if err != nil {
		return errors.StorageError("marshal citations", err)
	}
	resolutions, err := json.Marshal(job.Resolutions)
	if err != nil {
		return errors.StorageError("marshal resolutions", err)
	}
	res, err := ss.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, citations = ?, resolutions = ?, error = ?,
			started_at = ?, completed_at = ?
		WHERE id = ?`,
		job.Status, string(citations), string(resolutions), job.Error,
		job.StartedAt, job.CompletedAt, job.ID)
	if err != nil {
		return errors.StorageError("update job", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.StorageError("job not found", errors.ErrNotFound)
	}
	return nil
}

func (ss *SQLiteStore) ListJobs(ctx context.Context, filter JobFilter) ([]*Job, error) {
	query := `SELECT id, status, citations, resolutions, error, created_at, started_at, completed_at FROM jobs`
	var args []interface{}
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := ss.db.QueryContext(ctx, query, args...)
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

func (ss *SQLiteStore) DeleteJob(ctx context.Context, id string) error {
	res, err := ss.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return errors.StorageError("delete job", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.StorageError("job not found", errors.ErrNotFound)
	}
	return nil
}

func (ss *SQLiteStore) Ping(ctx context.Context) error {
	return ss.db.PingContext(ctx)
}
