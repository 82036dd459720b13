package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/slinet/ehfetch/pkg/utils"
	"go.uber.org/zap"
)

// DownloadStore persists download records
type DownloadStore struct {
	logger *zap.Logger
}

// NewDownloadStore creates a download store
func NewDownloadStore(logger *zap.Logger) *DownloadStore {
	return &DownloadStore{logger: logger}
}

// Upsert inserts or replaces a download record
func (s *DownloadStore) Upsert(ctx context.Context, d *Download) error {
	query := `
		INSERT INTO download (gid, token, title, label, state, pages, finished, tags, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (gid) DO UPDATE SET
			token = EXCLUDED.token,
			title = EXCLUDED.title,
			label = EXCLUDED.label,
			state = EXCLUDED.state,
			pages = EXCLUDED.pages,
			finished = EXCLUDED.finished,
			tags = EXCLUDED.tags,
			updated = now()
	`

	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}

	s.logger.Debug("executing query",
		zap.String("sql", utils.FormatSQL(query, d.Gid, d.Token, d.Title, d.Label, d.State, d.Pages, d.Finished, tags)),
	)

	_, err := GetPool().Exec(ctx, query, d.Gid, d.Token, d.Title, d.Label, d.State, d.Pages, d.Finished, tags)
	if err != nil {
		return fmt.Errorf("upsert download: %w", err)
	}
	return nil
}

// UpdateState updates only the state and progress of a download
func (s *DownloadStore) UpdateState(ctx context.Context, gid int64, state, pages, finished int) error {
	query := `UPDATE download SET state = $2, pages = $3, finished = $4, updated = now() WHERE gid = $1`
	_, err := GetPool().Exec(ctx, query, gid, state, pages, finished)
	if err != nil {
		return fmt.Errorf("update download state: %w", err)
	}
	return nil
}

// Get returns one download record, or nil when absent
func (s *DownloadStore) Get(ctx context.Context, gid int64) (*Download, error) {
	query := `
		SELECT gid, token, title, label, state, pages, finished, tags, added, updated
		FROM download WHERE gid = $1
	`
	var d Download
	err := GetPool().QueryRow(ctx, query, gid).Scan(
		&d.Gid, &d.Token, &d.Title, &d.Label, &d.State, &d.Pages, &d.Finished,
		&d.Tags, &d.Added, &d.Updated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query download: %w", err)
	}
	return &d, nil
}

// List returns all download records in insertion order
func (s *DownloadStore) List(ctx context.Context) ([]Download, error) {
	query := `
		SELECT gid, token, title, label, state, pages, finished, tags, added, updated
		FROM download ORDER BY added
	`
	rows, err := GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query downloads: %w", err)
	}
	defer rows.Close()

	var list []Download
	for rows.Next() {
		var d Download
		if err := rows.Scan(
			&d.Gid, &d.Token, &d.Title, &d.Label, &d.State, &d.Pages, &d.Finished,
			&d.Tags, &d.Added, &d.Updated,
		); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ListByState returns downloads in the given state, oldest first
func (s *DownloadStore) ListByState(ctx context.Context, state int) ([]Download, error) {
	query := `
		SELECT gid, token, title, label, state, pages, finished, tags, added, updated
		FROM download WHERE state = $1 ORDER BY added
	`
	rows, err := GetPool().Query(ctx, query, state)
	if err != nil {
		return nil, fmt.Errorf("query downloads by state: %w", err)
	}
	defer rows.Close()

	var list []Download
	for rows.Next() {
		var d Download
		if err := rows.Scan(
			&d.Gid, &d.Token, &d.Title, &d.Label, &d.State, &d.Pages, &d.Finished,
			&d.Tags, &d.Added, &d.Updated,
		); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete removes a download record
func (s *DownloadStore) Delete(ctx context.Context, gid int64) error {
	_, err := GetPool().Exec(ctx, `DELETE FROM download WHERE gid = $1`, gid)
	if err != nil {
		return fmt.Errorf("delete download: %w", err)
	}
	return nil
}
