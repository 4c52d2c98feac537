package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"JobSniper/internal/domain"
	"JobSniper/internal/ports"
)

const seenTable = "seen_jobs"

// Append-only: rows are never updated or deleted, so unbounded growth is
// accepted for the lifetime of a deployment.
const schema = `
CREATE TABLE IF NOT EXISTS seen_jobs (
    job_link  TEXT PRIMARY KEY,
    title     TEXT,
    published TEXT,
    seen_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore persists processed postings for deduplication.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.SeenStore = (*SQLiteStore)(nil)

// Open creates or reuses the database file at path and ensures the schema.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// IsNew reports whether the posting id was never recorded.
func (s *SQLiteStore) IsNew(ctx context.Context, id string) (bool, error) {
	query, args, err := sq.Select("1").
		From(seenTable).
		Where(sq.Eq{"job_link": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build seen query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("query seen: %w", err)
	}
	return false, nil
}

// Record durably marks the posting as processed. Recording an id twice is a
// no-op; the original row and its seen_at stay untouched.
func (s *SQLiteStore) Record(ctx context.Context, job domain.Job) error {
	query, args, err := sq.Insert(seenTable).
		Columns("job_link", "title", "published").
		Values(job.ID, job.Title, job.Published).
		Suffix("ON CONFLICT(job_link) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record job %s: %w", job.ID, err)
	}
	return nil
}

// IsEmpty reports whether no posting was ever recorded; it decides the
// first-run bootstrap policy.
func (s *SQLiteStore) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Count returns the number of tracked postings.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	query, _, err := sq.Select("COUNT(*)").From(seenTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count seen: %w", err)
	}
	return n, nil
}

// Get loads one dedup record by posting id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.SeenJob, error) {
	query, args, err := sq.Select("job_link", "title", "published", "seen_at").
		From(seenTable).
		Where(sq.Eq{"job_link": id}).
		ToSql()
	if err != nil {
		return domain.SeenJob{}, fmt.Errorf("build get query: %w", err)
	}

	var rec domain.SeenJob
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.ID, &rec.Title, &rec.Published, &rec.SeenAt)
	if err != nil {
		return domain.SeenJob{}, fmt.Errorf("get seen job %s: %w", id, err)
	}
	return rec, nil
}
