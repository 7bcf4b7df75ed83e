package database

import (
	"context"
	"fmt"
	"time"

	"go-jobmarket-scraper/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id         BIGSERIAL PRIMARY KEY,
	company    TEXT NOT NULL,
	title      TEXT NOT NULL,
	salary     INTEGER,
	location   TEXT NOT NULL,
	job_type   TEXT NOT NULL,
	post_date  DATE NOT NULL,
	job_link   TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS jobs_post_date_idx ON jobs (post_date DESC);`

// Repository is the Postgres listing store.
type Repository struct {
	db     *pgxpool.Pool
	staged *staging
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool, staged: newStaging()}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		r.db.Close()
	}
	return nil
}

// Migrate creates the jobs table when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate jobs table: %w", err)
	}
	return nil
}

// ---------------- JOB OPERATIONS ----------------

// Exists reports whether a job with this exact link is staged or stored.
func (r *Repository) Exists(ctx context.Context, link string) (bool, error) {
	if r.staged.has(link) {
		return true, nil
	}
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM jobs WHERE job_link = $1)", link).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to look up job link: %w", err)
	}
	return exists, nil
}

// Stage buffers a record until the next Flush.
func (r *Repository) Stage(record models.JobRecord) error {
	r.staged.add(record)
	return nil
}

func (r *Repository) Pending() int {
	return r.staged.size()
}

// Flush writes every staged record in one transaction. Links that reached
// the table in the meantime are skipped by the unique constraint.
func (r *Repository) Flush(ctx context.Context) error {
	records := r.staged.snapshot()
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin flush: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, job := range records {
		batch.Queue(`
			INSERT INTO jobs (company, title, salary, location, job_type, post_date, job_link)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (job_link) DO NOTHING`,
			job.Company, job.Title, job.Salary, job.Location, job.JobType, pgDate(job.PostDate), job.JobLink)
	}

	results := tx.SendBatch(ctx, batch)
	for _, job := range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert job %s: %w", job.JobLink, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to finish insert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit jobs: %w", err)
	}
	r.staged.commit(len(records))
	return nil
}

// ListJobs returns committed jobs, newest post date first.
func (r *Repository) ListJobs(ctx context.Context, limit, offset int) ([]models.JobRecord, error) {
	limit = clampLimit(limit, 20, 200)
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, company, title, salary, location, job_type, post_date, job_link, created_at
		FROM jobs
		ORDER BY post_date DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.JobRecord, 0, limit)
	for rows.Next() {
		var job models.JobRecord
		if err := rows.Scan(&job.ID, &job.Company, &job.Title, &job.Salary, &job.Location,
			&job.JobType, &job.PostDate, &job.JobLink, &job.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (r *Repository) CountJobs(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

// pgDate binds the calendar day of t as a DATE. A bare time.Time would be sent
// as timestamptz and shifted by the session time zone.
func pgDate(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}
