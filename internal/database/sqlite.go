package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go-jobmarket-scraper/internal/models"

	_ "modernc.org/sqlite"
)

const (
	sqliteDateLayout      = "2006-01-02"
	sqliteTimestampLayout = "2006-01-02 15:04:05"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	company    TEXT NOT NULL,
	title      TEXT NOT NULL,
	salary     INTEGER,
	location   TEXT NOT NULL,
	job_type   TEXT NOT NULL,
	post_date  TEXT NOT NULL,
	job_link   TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS jobs_post_date_idx ON jobs (post_date DESC);`

// SQLiteStore is the single-file listing store for local runs.
type SQLiteStore struct {
	Pool   *sql.DB
	staged *staging
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := sqliteDSN(path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database %s: %w", path, err)
	}

	// sqlite typically wants 1 writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("sqlite database unreachable: %w", err)
	}

	return &SQLiteStore{Pool: pool, staged: newStaging()}, nil
}

// sqliteDSN adds the busy timeout pragma, keeping any query the path
// already carries. modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_pragma=busy_timeout(5000)"
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.Pool == nil {
		return nil
	}
	return s.Pool.Close()
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.Pool.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to migrate jobs table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Exists(ctx context.Context, link string) (bool, error) {
	if s.staged.has(link) {
		return true, nil
	}
	var exists bool
	err := s.Pool.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE job_link = ?)`, link).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up job link: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStore) Stage(record models.JobRecord) error {
	s.staged.add(record)
	return nil
}

func (s *SQLiteStore) Pending() int {
	return s.staged.size()
}

// Flush writes staged records in one transaction; known links are ignored.
func (s *SQLiteStore) Flush(ctx context.Context) error {
	records := s.staged.snapshot()
	if len(records) == 0 {
		return nil
	}

	tx, err := s.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin flush: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO jobs (company, title, salary, location, job_type, post_date, job_link)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, job := range records {
		var salary sql.NullInt64
		if job.Salary != nil {
			salary = sql.NullInt64{Int64: int64(*job.Salary), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, job.Company, job.Title, salary, job.Location,
			job.JobType, job.PostDate.Format(sqliteDateLayout), job.JobLink); err != nil {
			return fmt.Errorf("failed to insert job %s: %w", job.JobLink, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit jobs: %w", err)
	}
	s.staged.commit(len(records))
	return nil
}

func (s *SQLiteStore) ListJobs(ctx context.Context, limit, offset int) ([]models.JobRecord, error) {
	limit = clampLimit(limit, 20, 200)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.Pool.QueryContext(ctx, `
		SELECT id, company, title, salary, location, job_type, post_date, job_link, created_at
		FROM jobs
		ORDER BY post_date DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.JobRecord, 0, limit)
	for rows.Next() {
		var (
			job       models.JobRecord
			salary    sql.NullInt64
			postDate  string
			createdAt string
		)
		if err := rows.Scan(&job.ID, &job.Company, &job.Title, &salary, &job.Location,
			&job.JobType, &postDate, &job.JobLink, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if salary.Valid {
			v := int(salary.Int64)
			job.Salary = &v
		}
		if job.PostDate, err = time.Parse(sqliteDateLayout, postDate); err != nil {
			return nil, fmt.Errorf("bad post_date %q for %s: %w", postDate, job.JobLink, err)
		}
		// created_at is informational; keep the zero time if the format drifts
		job.CreatedAt, _ = time.Parse(sqliteTimestampLayout, createdAt)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *SQLiteStore) CountJobs(ctx context.Context) (int, error) {
	var count int
	if err := s.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}
