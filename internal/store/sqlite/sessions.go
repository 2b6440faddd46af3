package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
	"github.com/keepsakeapp/keepsake-server/internal/store"
)

const sessionColumns = `id, created_at, updated_at, user_id, refresh_token_hash, expires_at`

func scanSession(scanner interface{ Scan(...any) error }) (*domain.Session, error) {
	var sess domain.Session
	var createdAt, updatedAt, expiresAt string

	err := scanner.Scan(&sess.ID, &createdAt, &updatedAt,
		&sess.UserID, &sess.RefreshTokenHash, &expiresAt)
	if err != nil {
		return nil, err
	}

	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if sess.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	return &sess, nil
}

// CreateSession inserts a new refresh session.
func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt),
		sess.UserID, sess.RefreshTokenHash, formatTime(sess.ExpiresAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSessionByTokenHash retrieves a session by its refresh token hash.
// Expiry is checked by the caller.
func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = ?`, tokenHash))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// DeleteSession removes a session by ID.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
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

// DeleteSessionByTokenHash removes a session by its refresh token hash.
// Used for logout; deleting an unknown hash is a no-op.
func (s *Store) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE refresh_token_hash = ?`, tokenHash); err != nil {
		return fmt.Errorf("delete session by hash: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, nowString())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
