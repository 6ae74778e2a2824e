package analytics

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// Store persists navigation events in SQLite.
type Store struct {
	db *sqlx.DB
}

type eventRow struct {
	ID        string `db:"id"`
	SessionID string `db:"session_id"`
	From      string `db:"from_page"`
	To        string `db:"to_page"`
	CreatedAt int64  `db:"created_at"`
}

// PageCount is the number of navigations that landed on a page.
type PageCount struct {
	Page   string `db:"page" json:"page"`
	Visits int64  `db:"visits" json:"visits"`
}

// NewStore opens (or creates) the database at path and applies migrations.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	// A single connection keeps SQLite writes serialised; WAL lets readers
	// in other processes proceed while we write.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure analytics db: %w", err)
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one navigation event.
func (s *Store) Record(ctx context.Context, e Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO navigations (id, session_id, from_page, to_page, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.From, e.To, e.At.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("record navigation: %w", err)
	}
	return nil
}

// Recent returns the latest events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, session_id, from_page, to_page, created_at
		FROM navigations ORDER BY created_at DESC, id DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list navigations: %w", err)
	}
	events := make([]Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, Event{
			ID:        r.ID,
			SessionID: r.SessionID,
			From:      r.From,
			To:        r.To,
			At:        time.UnixMilli(r.CreatedAt).UTC(),
		})
	}
	return events, nil
}

// CountByPage returns how often each page was navigated to, most visited first.
func (s *Store) CountByPage(ctx context.Context) ([]PageCount, error) {
	var counts []PageCount
	if err := s.db.SelectContext(ctx, &counts, `
		SELECT to_page AS page, COUNT(*) AS visits
		FROM navigations GROUP BY to_page ORDER BY visits DESC, page ASC`); err != nil {
		return nil, fmt.Errorf("count navigations: %w", err)
	}
	return counts, nil
}

// Prune deletes events older than before and returns how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM navigations WHERE created_at < ?`, before.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune navigations: %w", err)
	}
	return res.RowsAffected()
}

// StartCleanupScheduler prunes events older than retention every interval.
// It returns a stop function.
func (s *Store) StartCleanupScheduler(retention, interval time.Duration, logger *zap.Logger) func() {
	if logger == nil {
		logger = zap.NewNop()
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				n, err := s.Prune(context.Background(), time.Now().Add(-retention))
				if err != nil {
					logger.Warn("navigation cleanup failed", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Info("navigation cleanup", zap.Int64("removed", n))
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
