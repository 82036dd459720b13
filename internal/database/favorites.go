package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FavoriteStore persists local favorites. It implements the parser's
// FavoriteChecker collaborator.
type FavoriteStore struct {
	logger *zap.Logger
}

// NewFavoriteStore creates a favorite store
func NewFavoriteStore(logger *zap.Logger) *FavoriteStore {
	return &FavoriteStore{logger: logger}
}

// ContainLocalFavorites reports whether gid is locally favorited
func (s *FavoriteStore) ContainLocalFavorites(ctx context.Context, gid int64) (bool, error) {
	var exists bool
	err := GetPool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM local_favorite WHERE gid = $1)`, gid,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query local favorite: %w", err)
	}
	return exists, nil
}

// Put adds or refreshes a local favorite
func (s *FavoriteStore) Put(ctx context.Context, f *LocalFavorite) error {
	query := `
		INSERT INTO local_favorite (gid, token, title)
		VALUES ($1, $2, $3)
		ON CONFLICT (gid) DO UPDATE SET token = EXCLUDED.token, title = EXCLUDED.title
	`
	_, err := GetPool().Exec(ctx, query, f.Gid, f.Token, f.Title)
	if err != nil {
		return fmt.Errorf("put local favorite: %w", err)
	}
	s.logger.Debug("local favorite stored", zap.Int64("gid", f.Gid))
	return nil
}

// Remove deletes a local favorite
func (s *FavoriteStore) Remove(ctx context.Context, gid int64) error {
	_, err := GetPool().Exec(ctx, `DELETE FROM local_favorite WHERE gid = $1`, gid)
	if err != nil {
		return fmt.Errorf("remove local favorite: %w", err)
	}
	return nil
}

// List returns all local favorites, newest first
func (s *FavoriteStore) List(ctx context.Context) ([]LocalFavorite, error) {
	rows, err := GetPool().Query(ctx,
		`SELECT gid, token, title, added FROM local_favorite ORDER BY added DESC`)
	if err != nil {
		return nil, fmt.Errorf("query local favorites: %w", err)
	}
	defer rows.Close()

	var list []LocalFavorite
	for rows.Next() {
		var f LocalFavorite
		if err := rows.Scan(&f.Gid, &f.Token, &f.Title, &f.Added); err != nil {
			return nil, fmt.Errorf("scan local favorite: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
