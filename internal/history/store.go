// Package history persists build records across compiler runs.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Build is one compile of the whole project, successful or not.
type Build struct {
	SessionID     string
	Timestamp     time.Time
	FileCount     int
	FunctionCount int
	ErrorCount    int
	Duration      time.Duration
	Trigger       string
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveBuild(build Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if build.Timestamp.IsZero() {
		build.Timestamp = time.Now().UTC()
	}

	query := `
INSERT INTO builds (
  session_id, ts_utc, file_count, function_count, error_count, duration_ms, trigger
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(session_id, ts_utc) DO UPDATE SET
  file_count=excluded.file_count,
  function_count=excluded.function_count,
  error_count=excluded.error_count,
  duration_ms=excluded.duration_ms,
  trigger=excluded.trigger
`
	return s.withRetry("save build", func() error {
		_, err := s.db.Exec(
			query,
			build.SessionID,
			build.Timestamp.UTC().Format(time.RFC3339Nano),
			build.FileCount,
			build.FunctionCount,
			build.ErrorCount,
			build.Duration.Milliseconds(),
			build.Trigger,
		)
		return err
	})
}

// RecentBuilds returns the newest builds first, at most limit rows.
func (s *Store) RecentBuilds(limit int) ([]Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	query := `
SELECT session_id, ts_utc, file_count, function_count, error_count, duration_ms, trigger
FROM builds
ORDER BY ts_utc DESC
LIMIT ?
`
	var rows *sql.Rows
	err := s.withRetry("load builds", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	builds := make([]Build, 0, limit)
	for rows.Next() {
		var (
			tsRaw      string
			durationMS int64
			build      Build
		)
		if err := rows.Scan(
			&build.SessionID,
			&tsRaw,
			&build.FileCount,
			&build.FunctionCount,
			&build.ErrorCount,
			&durationMS,
			&build.Trigger,
		); err != nil {
			return nil, fmt.Errorf("scan build row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse build timestamp %q: %w", tsRaw, err)
		}
		build.Timestamp = ts.UTC()
		build.Duration = time.Duration(durationMS) * time.Millisecond

		builds = append(builds, build)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build rows: %w", err)
	}

	return builds, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}
