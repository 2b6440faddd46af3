package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
	"github.com/keepsakeapp/keepsake-server/internal/store"
)

const albumColumns = `id, created_at, updated_at, owner_id, name, cover_media_id`

// scanAlbum scans an album row into a domain.Album. MediaIDs is loaded
// separately.
func scanAlbum(scanner interface{ Scan(...any) error }) (*domain.Album, error) {
	var a domain.Album
	var createdAt, updatedAt string
	var coverMediaID sql.NullString

	err := scanner.Scan(&a.ID, &createdAt, &updatedAt, &a.OwnerID, &a.Name, &coverMediaID)
	if err != nil {
		return nil, err
	}

	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if coverMediaID.Valid {
		a.CoverMediaID = &coverMediaID.String
	}

	return &a, nil
}

// CreateAlbum inserts a new album.
func (s *Store) CreateAlbum(ctx context.Context, a *domain.Album) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO albums (`+albumColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
		a.OwnerID, a.Name, nullableString(a.CoverMediaID),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert album: %w", err)
	}
	return nil
}

// GetAlbum retrieves an album by ID within the owner's scope, including its
// member media IDs in insertion order.
func (s *Store) GetAlbum(ctx context.Context, id, ownerID string) (*domain.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE id = ? AND owner_id = ?`

	a, err := scanAlbum(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}

	if a.MediaIDs, err = s.albumMediaIDs(ctx, id); err != nil {
		return nil, err
	}
	return a, nil
}

// albumMediaIDs returns member media IDs in the order they were added.
func (s *Store) albumMediaIDs(ctx context.Context, albumID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT media_id FROM album_media WHERE album_id = ? ORDER BY added_at, media_id`,
		albumID)
	if err != nil {
		return nil, fmt.Errorf("album media ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan media id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media ids: %w", err)
	}
	return ids, nil
}

// ListAlbums returns all of the owner's albums, newest first.
func (s *Store) ListAlbums(ctx context.Context, ownerID string) ([]*domain.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums
		WHERE owner_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var albums []*domain.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}

	for _, a := range albums {
		if a.MediaIDs, err = s.albumMediaIDs(ctx, a.ID); err != nil {
			return nil, err
		}
	}
	return albums, nil
}

// RenameAlbum updates an album's name.
func (s *Store) RenameAlbum(ctx context.Context, id, ownerID, name string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE albums SET name = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		name, nowString(), id, ownerID)
	if err != nil {
		return fmt.Errorf("rename album: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAlbum removes an album and its memberships. Member media records
// are untouched.
func (s *Store) DeleteAlbum(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM albums WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AddMediaToAlbum adds a media record to an album. Adding an existing member
// is a no-op. If the album has no cover yet, the added record becomes the
// cover; the conditional UPDATE makes the assignment atomic under concurrent
// adds, so only the first insert ever wins.
func (s *Store) AddMediaToAlbum(ctx context.Context, albumID, mediaID, ownerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := checkOwnedRow(ctx, tx, "albums", albumID, ownerID); err != nil {
		return err
	}
	if err := checkOwnedRow(ctx, tx, "media", mediaID, ownerID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO album_media (album_id, media_id, added_at)
		VALUES (?, ?, ?)`,
		albumID, mediaID, nowString()); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE albums SET cover_media_id = ?
		WHERE id = ? AND cover_media_id IS NULL`,
		mediaID, albumID); err != nil {
		return fmt.Errorf("assign cover: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RemoveMediaFromAlbum removes a media record from an album. Removing a
// non-member is a no-op. If the removed record was the album cover, the
// cover is cleared.
func (s *Store) RemoveMediaFromAlbum(ctx context.Context, albumID, mediaID, ownerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := checkOwnedRow(ctx, tx, "albums", albumID, ownerID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM album_media WHERE album_id = ? AND media_id = ?`,
		albumID, mediaID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE albums SET cover_media_id = NULL
		WHERE id = ? AND cover_media_id = ?`,
		albumID, mediaID); err != nil {
		return fmt.Errorf("clear cover: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// checkOwnedRow verifies an owner-scoped row exists inside a transaction.
func checkOwnedRow(ctx context.Context, tx *sql.Tx, table, id, ownerID string) error {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM `+table+` WHERE id = ? AND owner_id = ?`, id, ownerID).Scan(&one)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	return nil
}

// ListAlbumMedia returns one page of an album's non-deleted member records,
// newest first.
func (s *Store) ListAlbumMedia(ctx context.Context, albumID, ownerID string, req store.PageRequest) (store.Page[*domain.MediaRecord], error) {
	req.Validate()
	var zero store.Page[*domain.MediaRecord]

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM albums WHERE id = ? AND owner_id = ?`, albumID, ownerID).Scan(&one)
	if err == sql.ErrNoRows {
		return zero, store.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("check album: %w", err)
	}

	query := `SELECT ` + mediaColumns + ` FROM media
		JOIN album_media ON album_media.media_id = media.id
		WHERE album_media.album_id = ? AND media.deleted_at IS NULL
		ORDER BY media.created_at DESC, media.id DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, albumID, store.PageSize+1, req.Offset())
	if err != nil {
		return zero, fmt.Errorf("list album media: %w", err)
	}
	defer rows.Close()

	var items []*domain.MediaRecord
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return zero, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return zero, fmt.Errorf("iterate media: %w", err)
	}

	return store.NewPage(items, req), nil
}
