// Package repository persists download history in SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/harmonyapp/harmonyd/internal/domain"
)

// HistoryRepository records completed downloads.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository opens (and if needed creates) the history database.
func NewHistoryRepository(path string) (*HistoryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS downloads (
			id TEXT PRIMARY KEY,
			video_id TEXT NOT NULL,
			title TEXT NOT NULL,
			filename TEXT NOT NULL,
			format TEXT NOT NULL,
			duration TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_downloads_created_at ON downloads(created_at);
		CREATE INDEX IF NOT EXISTS idx_downloads_video_id ON downloads(video_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &HistoryRepository{db: db}, nil
}

// Record inserts one completed download.
func (r *HistoryRepository) Record(ctx context.Context, rec *domain.DownloadRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO downloads (id, video_id, title, filename, format, duration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.VideoID, rec.Title, rec.Filename, rec.Format, rec.Duration,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert download: %w", err)
	}
	return nil
}

// List returns the most recent downloads, newest first.
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]domain.DownloadRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, video_id, title, filename, format, duration, created_at
		 FROM downloads ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query downloads: %w", err)
	}
	defer rows.Close()

	records := make([]domain.DownloadRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Get returns one download record by id.
func (r *HistoryRepository) Get(ctx context.Context, id string) (*domain.DownloadRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, video_id, title, filename, format, duration, created_at
		 FROM downloads WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	return rec, err
}

// Ping reports whether the database is reachable.
func (r *HistoryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying database.
func (r *HistoryRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.DownloadRecord, error) {
	var rec domain.DownloadRecord
	var createdAt string
	if err := row.Scan(&rec.ID, &rec.VideoID, &rec.Title, &rec.Filename, &rec.Format, &rec.Duration, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan download: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}
