package database

import (
	"context"
	"fmt"
	"strings"

	"go-jobmarket-scraper/internal/models"
)

// Store is a listing store backed by a SQL database. Exists sees staged
// records as well as committed ones.
type Store interface {
	Exists(ctx context.Context, link string) (bool, error)
	Stage(record models.JobRecord) error
	Flush(ctx context.Context) error
	Pending() int
	ListJobs(ctx context.Context, limit, offset int) ([]models.JobRecord, error)
	CountJobs(ctx context.Context) (int, error)
	Close() error
}

// Open connects to the database named by databaseURL and makes sure the
// jobs table exists. postgres:// and postgresql:// URLs use Postgres;
// sqlite:, file: and *.db paths use SQLite.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		repo, err := ConnectDB(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		return repo, nil
	case strings.HasPrefix(databaseURL, "sqlite:"), strings.HasPrefix(databaseURL, "file:"), strings.HasSuffix(databaseURL, ".db"):
		path := strings.TrimPrefix(strings.TrimPrefix(databaseURL, "sqlite://"), "sqlite:")
		path = strings.TrimPrefix(path, "file:")
		store, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database url %q: expected postgres://, sqlite: or a .db path", databaseURL)
	}
}

func clampLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
