package service

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/keepsakeapp/keepsake-server/internal/auth"
	"github.com/keepsakeapp/keepsake-server/internal/blob"
	domainerrors "github.com/keepsakeapp/keepsake-server/internal/errors"
	"github.com/keepsakeapp/keepsake-server/internal/store/sqlite"
	"github.com/keepsakeapp/keepsake-server/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store   *sqlite.Store
	auth    *AuthService
	media   *MediaService
	albums  *AlbumService
	stats   *StatsService
	sharing *SharingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	blobs, err := blob.NewStorage(dir)
	require.NoError(t, err)

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	v := validation.New()

	return &testEnv{
		store:   st,
		auth:    NewAuthService(st, tokens, v, logger),
		media:   NewMediaService(st, blobs, v, logger),
		albums:  NewAlbumService(st, v, logger),
		stats:   NewStatsService(st, logger),
		sharing: NewSharingService(st, blobs, "https://keepsake.example.com", logger),
	}
}

func registerTestUser(t *testing.T, env *testEnv, email string) *AuthResponse {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp := registerTestUser(t, env, "kim@example.com")
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "kim@example.com", resp.User.Email)

	login, err := env.auth.Login(ctx, LoginRequest{
		Email:    "kim@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	claims, err := env.auth.VerifyAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerTestUser(t, env, "kim@example.com")
	_, err := env.auth.Register(ctx, RegisterRequest{
		Email:    "kim@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "short"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerTestUser(t, env, "kim@example.com")

	_, err := env.auth.Login(ctx, LoginRequest{Email: "kim@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// Unknown email gives the same error as a wrong password.
	_, err = env.auth.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp := registerTestUser(t, env, "kim@example.com")

	refreshed, err := env.auth.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is dead after rotation.
	_, err = env.auth.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	// The new one works.
	_, err = env.auth.Refresh(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp := registerTestUser(t, env, "kim@example.com")

	require.NoError(t, env.auth.Logout(ctx, resp.RefreshToken))
	_, err := env.auth.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	// Logging out twice, or with garbage, is fine.
	assert.NoError(t, env.auth.Logout(ctx, resp.RefreshToken))
	assert.NoError(t, env.auth.Logout(ctx, "garbage"))
}
