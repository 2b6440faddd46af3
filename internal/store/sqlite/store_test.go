package sqlite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
	"github.com/keepsakeapp/keepsake-server/internal/id"
	"github.com/keepsakeapp/keepsake-server/internal/store"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Store) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        fmt.Sprintf("%s@example.com", id.MustGenerate("usr")),
		PasswordHash: "hash",
		DisplayName:  "Test User",
	}
	u.ID = id.MustGenerate("usr")
	u.InitTimestamps()
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createTestMedia(t *testing.T, s *Store, ownerID, name string, mediaType domain.MediaType) *domain.MediaRecord {
	t.Helper()
	m := &domain.MediaRecord{
		OwnerID:      ownerID,
		Path:         "2026/01/02/" + name,
		OriginalName: name,
		Size:         1024,
		MediaType:    mediaType,
		ShareToken:   uuid.NewString(),
	}
	m.ID = id.MustGenerate("med")
	m.InitTimestamps()
	if err := s.CreateMedia(context.Background(), m); err != nil {
		t.Fatalf("create media: %v", err)
	}
	return m
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s)

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != u.Email {
		t.Errorf("email = %q, want %q", got.Email, u.Email)
	}
	if got.DisplayName != u.DisplayName {
		t.Errorf("display name = %q, want %q", got.DisplayName, u.DisplayName)
	}

	byEmail, err := s.GetUserByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("id = %q, want %q", byEmail.ID, u.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s)

	dup := &domain.User{Email: u.Email, PasswordHash: "other"}
	dup.ID = id.MustGenerate("usr")
	dup.InitTimestamps()
	if err := s.CreateUser(ctx, dup); err != store.ErrAlreadyExists {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetUser(context.Background(), "usr-missing"); err != store.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	sess := &domain.Session{
		UserID:           u.ID,
		RefreshTokenHash: "tokenhash",
		ExpiresAt:        time.Now().Add(time.Hour),
	}
	sess.ID = id.MustGenerate("ses")
	sess.InitTimestamps()
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := s.GetSessionByTokenHash(ctx, "tokenhash")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.UserID != u.ID {
		t.Errorf("user id = %q, want %q", got.UserID, u.ID)
	}
	if got.IsExpired() {
		t.Error("session should not be expired")
	}

	if err := s.DeleteSessionByTokenHash(ctx, "tokenhash"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := s.GetSessionByTokenHash(ctx, "tokenhash"); err != store.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	// Deleting an unknown hash is a no-op.
	if err := s.DeleteSessionByTokenHash(ctx, "tokenhash"); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	expired := &domain.Session{
		UserID:           u.ID,
		RefreshTokenHash: "expired",
		ExpiresAt:        time.Now().Add(-time.Hour),
	}
	expired.ID = id.MustGenerate("ses")
	expired.InitTimestamps()
	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatalf("create session: %v", err)
	}

	live := &domain.Session{
		UserID:           u.ID,
		RefreshTokenHash: "live",
		ExpiresAt:        time.Now().Add(time.Hour),
	}
	live.ID = id.MustGenerate("ses")
	live.InitTimestamps()
	if err := s.CreateSession(ctx, live); err != nil {
		t.Fatalf("create session: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
	if _, err := s.GetSessionByTokenHash(ctx, "live"); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
}
