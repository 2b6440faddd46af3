package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createAlbum(t *testing.T, token, name string) AlbumResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/albums", "Authorization: Bearer "+token, map[string]any{
		"name": name,
	})
	require.Equal(t, http.StatusOK, resp.Code, "create album failed: %s", resp.Body.String())

	var envelope testEnvelope[AlbumResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreateAndGetAlbum(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerUser(t, "kim@example.com")
	header := "Authorization: Bearer " + auth.AccessToken

	album := ts.createAlbum(t, auth.AccessToken, "Summer 2026")
	assert.NotEmpty(t, album.ID)
	assert.Equal(t, "Summer 2026", album.Name)
	assert.Nil(t, album.CoverMediaID)
	assert.Empty(t, album.MediaIDs)

	resp := ts.api.Get("/api/v1/albums/"+album.ID, header)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AlbumResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, album.ID, envelope.Data.ID)

	// Empty name is rejected.
	resp = ts.api.Post("/api/v1/albums", header, map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListAlbums(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerUser(t, "kim@example.com")

	ts.createAlbum(t, auth.AccessToken, "First")
	ts.createAlbum(t, auth.AccessToken, "Second")

	resp := ts.api.Get("/api/v1/albums", "Authorization: Bearer "+auth.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListAlbumsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Albums, 2)
}

func TestRenameAlbum(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerUser(t, "kim@example.com")
	header := "Authorization: Bearer " + auth.AccessToken

	album := ts.createAlbum(t, auth.AccessToken, "Old Name")

	resp := ts.api.Patch("/api/v1/albums/"+album.ID, header, map[string]any{
		"name": "New Name",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AlbumResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "New Name", envelope.Data.Name)
}

func TestDeleteAlbumKeepsMedia(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerUser(t, "kim@example.com")
	header := "Authorization: Bearer " + auth.AccessToken

	record := ts.uploadFile(t, auth.AccessToken, "photo.jpg", "", "", []byte("data"))
	album := ts.createAlbum(t, auth.AccessToken, "Doomed")

	resp := ts.api.Post("/api/v1/albums/"+album.ID+"/media", header, map[string]any{
		"media_id": record.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/api/v1/albums/"+album.ID, header)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/albums/"+album.ID, header)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// The member record is untouched.
	resp = ts.api.Get("/api/v1/media/"+record.ID, header)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAlbumCoverFollowsMembership(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerUser(t, "kim@example.com")
	header := "Authorization: Bearer " + auth.AccessToken

	first := ts.uploadFile(t, auth.AccessToken, "first.jpg", "", "", []byte("a"))
	second := ts.uploadFile(t, auth.AccessToken, "second.jpg", "", "", []byte("b"))
	album := ts.createAlbum(t, auth.AccessToken, "Covers")

	// The first record added becomes the cover.
	resp := ts.api.Post("/api/v1/albums/"+album.ID+"/media", header, map[string]any{
		"media_id": first.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AlbumResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.CoverMediaID)
	assert.Equal(t, first.ID, *envelope.Data.CoverMediaID)

	// Adding a second record leaves the cover alone.
	resp = ts.api.Post("/api/v1/albums/"+album.ID+"/media", header, map[string]any{
		"media_id": second.ID,
	})
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.CoverMediaID)
	assert.Equal(t, first.ID, *envelope.Data.CoverMediaID)
	assert.Equal(t, []string{first.ID, second.ID}, envelope.Data.MediaIDs)

	// Removing the cover clears it.
	resp = ts.api.Delete("/api/v1/albums/"+album.ID+"/media/"+first.ID, header)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	envelope = testEnvelope[AlbumResponse]{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Data.CoverMediaID)
	assert.Equal(t, []string{second.ID}, envelope.Data.MediaIDs)
}

func TestListAlbumMedia(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerUser(t, "kim@example.com")
	header := "Authorization: Bearer " + auth.AccessToken

	record := ts.uploadFile(t, auth.AccessToken, "photo.jpg", "", "", []byte("a"))
	trashed := ts.uploadFile(t, auth.AccessToken, "gone.jpg", "", "", []byte("b"))
	album := ts.createAlbum(t, auth.AccessToken, "Mixed")

	for _, id := range []string{record.ID, trashed.ID} {
		resp := ts.api.Post("/api/v1/albums/"+album.ID+"/media", header, map[string]any{
			"media_id": id,
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}

	resp := ts.api.Delete("/api/v1/media/"+trashed.ID, header)
	require.Equal(t, http.StatusOK, resp.Code)

	// Trashed members stay in the album but drop out of the listing.
	resp = ts.api.Get("/api/v1/albums/"+album.ID+"/media", header)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[MediaPageResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, record.ID, envelope.Data.Items[0].ID)
}

func TestAlbumCrossOwnerIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.registerUser(t, "owner@example.com")
	other := ts.registerUser(t, "other@example.com")

	album := ts.createAlbum(t, owner.AccessToken, "Private")
	foreign := ts.uploadFile(t, other.AccessToken, "foreign.jpg", "", "", []byte("x"))

	resp := ts.api.Get("/api/v1/albums/"+album.ID, "Authorization: Bearer "+other.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Another user's media cannot be pulled into your album either.
	resp = ts.api.Post("/api/v1/albums/"+album.ID+"/media", "Authorization: Bearer "+owner.AccessToken, map[string]any{
		"media_id": foreign.ID,
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
