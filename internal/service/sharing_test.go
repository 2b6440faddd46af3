package service

import (
	"context"
	"io"
	"strings"
	"testing"

	domainerrors "github.com/keepsakeapp/keepsake-server/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndResolveShareLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := registerTestUser(t, env, "kim@example.com").User

	record := uploadTestFile(t, env, owner.ID, "shared.jpg", "pixels")

	link, err := env.sharing.MintLink(ctx, owner.ID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ShareToken, link.Token)
	assert.Equal(t, "https://keepsake.example.com/api/v1/share/"+record.ShareToken, link.URL)

	// Minting again returns the same token; it is fixed at upload.
	again, err := env.sharing.MintLink(ctx, owner.ID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, link.Token, again.Token)

	resolved, err := env.sharing.Resolve(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, record.ID, resolved.ID)
}

func TestResolveUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sharing.Resolve(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestShareLinkSurvivesTrash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := registerTestUser(t, env, "kim@example.com").User

	record := uploadTestFile(t, env, owner.ID, "shared.jpg", "pixels")
	require.NoError(t, env.media.Delete(ctx, owner.ID, record.ID))

	resolved, err := env.sharing.Resolve(ctx, record.ShareToken)
	require.NoError(t, err)
	assert.True(t, resolved.IsDeleted())

	// The bytes stream too.
	got, f, err := env.sharing.OpenBlob(ctx, record.ShareToken)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, record.ID, got.ID)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

func TestMintLinkCrossOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := registerTestUser(t, env, "kim@example.com").User
	other := registerTestUser(t, env, "sam@example.com").User

	record := uploadTestFile(t, env, owner.ID, "private.jpg", "secret")

	_, err := env.sharing.MintLink(ctx, other.ID, record.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// But once the token is known, resolution has no owner check.
	resolved, err := env.sharing.Resolve(ctx, record.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, record.ID, resolved.ID)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := registerTestUser(t, env, "kim@example.com").User

	uploadTestFile(t, env, owner.ID, "a.jpg", strings.Repeat("x", 100))
	uploadTestFile(t, env, owner.ID, "b.jpg", strings.Repeat("x", 200))
	uploadTestFile(t, env, owner.ID, "c.mp4", strings.Repeat("x", 300))
	deleted := uploadTestFile(t, env, owner.ID, "d.pdf", strings.Repeat("x", 400))
	require.NoError(t, env.media.Delete(ctx, owner.ID, deleted.ID))

	stats, err := env.stats.Dashboard(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PhotoCount)
	assert.Equal(t, 1, stats.VideoCount)
	assert.Equal(t, 0, stats.DocumentCount, "trashed records are invisible to stats")
	assert.Equal(t, int64(600), stats.TotalSizeBytes)
	assert.Equal(t, 0.0, stats.TotalSizeGB, "600 bytes rounds to 0.00 GB")
	assert.Len(t, stats.RecentUploads, 3)
}

func TestDashboardEmptyLibrary(t *testing.T) {
	env := newTestEnv(t)
	owner := registerTestUser(t, env, "kim@example.com").User

	stats, err := env.stats.Dashboard(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.PhotoCount)
	assert.Zero(t, stats.TotalSizeBytes)
	assert.NotNil(t, stats.RecentUploads)
	assert.Empty(t, stats.RecentUploads)
}

func TestBinaryGBRounding(t *testing.T) {
	assert.Equal(t, 0.0, binaryGB(0))
	assert.Equal(t, 1.0, binaryGB(1<<30))
	assert.Equal(t, 1.5, binaryGB(3<<29))
	assert.Equal(t, 0.25, binaryGB(1<<28))
	// 1.005 GB rounds to 1.0.
	assert.Equal(t, 1.0, binaryGB((1<<30)+(1<<22)))
}
