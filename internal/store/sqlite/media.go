package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
	"github.com/keepsakeapp/keepsake-server/internal/store"
)

// mediaColumns is the canonical column list for media queries.
// Keep in sync with scanMedia.
const mediaColumns = `id, created_at, updated_at, deleted_at, owner_id, path,
	original_name, size, media_type, category, tags, blur_hash, is_favorite, share_token`

// scanMedia scans a media row into a domain.MediaRecord.
func scanMedia(scanner interface{ Scan(...any) error }) (*domain.MediaRecord, error) {
	var m domain.MediaRecord
	var createdAt, updatedAt, mediaType string
	var deletedAt sql.NullString
	var isFavorite int

	err := scanner.Scan(
		&m.ID, &createdAt, &updatedAt, &deletedAt, &m.OwnerID, &m.Path,
		&m.OriginalName, &m.Size, &mediaType, &m.Category, &m.Tags,
		&m.BlurHash, &isFavorite, &m.ShareToken,
	)
	if err != nil {
		return nil, err
	}

	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if m.DeletedAt, err = parseNullableTime(deletedAt); err != nil {
		return nil, fmt.Errorf("parse deleted_at: %w", err)
	}
	m.MediaType = domain.MediaType(mediaType)
	m.IsFavorite = isFavorite != 0

	return &m, nil
}

// CreateMedia inserts a new media record.
func (s *Store) CreateMedia(ctx context.Context, m *domain.MediaRecord) error {
	query := `
		INSERT INTO media (` + mediaColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		m.ID, formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
		nullTimeString(m.DeletedAt), m.OwnerID, m.Path,
		m.OriginalName, m.Size, string(m.MediaType), m.Category, m.Tags,
		m.BlurHash, boolToInt(m.IsFavorite), m.ShareToken,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

// GetMedia retrieves a media record by ID within the owner's scope.
// Soft-deleted records are returned; callers check DeletedAt themselves.
func (s *Store) GetMedia(ctx context.Context, id, ownerID string) (*domain.MediaRecord, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = ? AND owner_id = ?`

	m, err := scanMedia(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return m, nil
}

// GetMediaByShareToken retrieves a media record by its share token.
// The lookup deliberately has no owner scope and no deletion check: the token
// itself is the capability.
func (s *Store) GetMediaByShareToken(ctx context.Context, token string) (*domain.MediaRecord, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE share_token = ?`

	m, err := scanMedia(s.db.QueryRowContext(ctx, query, token))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media by token: %w", err)
	}
	return m, nil
}

// ListMedia returns one page of the owner's media matching the filter,
// newest first. All filter constraints combine with AND; the free-text query
// is a case-insensitive substring match against the original filename, tags,
// or category.
func (s *Store) ListMedia(ctx context.Context, ownerID string, filter store.MediaFilter, req store.PageRequest) (store.Page[*domain.MediaRecord], error) {
	req.Validate()

	var sb strings.Builder
	sb.WriteString(`SELECT ` + mediaColumns + ` FROM media WHERE owner_id = ?`)
	args := []any{ownerID}

	switch filter.Scope {
	case store.ScopeActive:
		sb.WriteString(` AND deleted_at IS NULL`)
	case store.ScopeTrash:
		sb.WriteString(` AND deleted_at IS NOT NULL`)
	case store.ScopeAll:
	}
	if filter.MediaType != "" {
		sb.WriteString(` AND media_type = ?`)
		args = append(args, string(filter.MediaType))
	}
	if filter.Category != "" {
		sb.WriteString(` AND category = ?`)
		args = append(args, filter.Category)
	}
	if filter.FavoriteOnly {
		sb.WriteString(` AND is_favorite = 1`)
	}
	if filter.Start != nil {
		sb.WriteString(` AND created_at >= ?`)
		args = append(args, formatTime(*filter.Start))
	}
	if filter.End != nil {
		sb.WriteString(` AND created_at <= ?`)
		args = append(args, formatTime(*filter.End))
	}
	if filter.Query != "" {
		// LIKE is case-insensitive for ASCII in SQLite.
		sb.WriteString(` AND (original_name LIKE ? ESCAPE '\'
			OR tags LIKE ? ESCAPE '\'
			OR category LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(filter.Query) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	sb.WriteString(` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args = append(args, store.PageSize+1, req.Offset())

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return store.Page[*domain.MediaRecord]{}, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []*domain.MediaRecord
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return store.Page[*domain.MediaRecord]{}, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return store.Page[*domain.MediaRecord]{}, fmt.Errorf("iterate media: %w", err)
	}

	return store.NewPage(items, req), nil
}

// escapeLike escapes LIKE wildcards in user-supplied query text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// SoftDeleteMedia marks a media record deleted. Deleting an already-deleted
// record is a no-op that keeps the original deletion time.
func (s *Store) SoftDeleteMedia(ctx context.Context, id, ownerID string) error {
	now := nowString()
	res, err := s.db.ExecContext(ctx, `
		UPDATE media SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		now, now, id, ownerID)
	if err != nil {
		return fmt.Errorf("soft delete media: %w", err)
	}
	return s.checkMediaExists(ctx, res, id, ownerID)
}

// RestoreMedia clears the deletion mark. Restoring an active record is a no-op.
func (s *Store) RestoreMedia(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE media SET deleted_at = NULL, updated_at = ?
		WHERE id = ? AND owner_id = ? AND deleted_at IS NOT NULL`,
		nowString(), id, ownerID)
	if err != nil {
		return fmt.Errorf("restore media: %w", err)
	}
	return s.checkMediaExists(ctx, res, id, ownerID)
}

// checkMediaExists distinguishes "no-op" from "no such record" after a
// conditional update touched zero rows.
func (s *Store) checkMediaExists(ctx context.Context, res sql.Result, id, ownerID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	var one int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM media WHERE id = ? AND owner_id = ?`, id, ownerID).Scan(&one)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check media: %w", err)
	}
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Store) ToggleFavorite(ctx context.Context, id, ownerID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE media SET is_favorite = 1 - is_favorite, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		nowString(), id, ownerID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, store.ErrNotFound
	}

	var fav int
	if err := tx.QueryRowContext(ctx,
		`SELECT is_favorite FROM media WHERE id = ?`, id).Scan(&fav); err != nil {
		return false, fmt.Errorf("read favorite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return fav != 0, nil
}

// MediaTypeCounts returns the number of non-deleted records per type and the
// total byte size of the owner's non-deleted media.
func (s *Store) MediaTypeCounts(ctx context.Context, ownerID string) (map[domain.MediaType]int, int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT media_type, COUNT(*), COALESCE(SUM(size), 0)
		FROM media WHERE owner_id = ? AND deleted_at IS NULL
		GROUP BY media_type`,
		ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("media type counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.MediaType]int)
	var totalSize int64
	for rows.Next() {
		var mediaType string
		var count int
		var size int64
		if err := rows.Scan(&mediaType, &count, &size); err != nil {
			return nil, 0, fmt.Errorf("scan counts: %w", err)
		}
		counts[domain.MediaType(mediaType)] = count
		totalSize += size
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, totalSize, nil
}

// RecentMedia returns the owner's newest non-deleted records, newest first.
func (s *Store) RecentMedia(ctx context.Context, ownerID string, limit int) ([]*domain.MediaRecord, error) {
	query := `SELECT ` + mediaColumns + ` FROM media
		WHERE owner_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent media: %w", err)
	}
	defer rows.Close()

	var items []*domain.MediaRecord
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media: %w", err)
	}
	return items, nil
}
