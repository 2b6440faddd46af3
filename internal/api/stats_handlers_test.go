package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerUser(t, "kim@example.com")
	header := "Authorization: Bearer " + auth.AccessToken

	ts.uploadFile(t, auth.AccessToken, "one.jpg", "", "", []byte("aaaa"))
	ts.uploadFile(t, auth.AccessToken, "two.mp4", "", "", []byte("bbbbbb"))
	trashed := ts.uploadFile(t, auth.AccessToken, "three.pdf", "", "", []byte("cc"))

	resp := ts.api.Delete("/api/v1/media/"+trashed.ID, header)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/stats", header)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[StatsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	// Trashed records count nowhere.
	assert.Equal(t, 1, envelope.Data.PhotoCount)
	assert.Equal(t, 1, envelope.Data.VideoCount)
	assert.Equal(t, 0, envelope.Data.DocumentCount)
	assert.Equal(t, int64(10), envelope.Data.TotalSizeBytes)
	assert.Equal(t, 0.0, envelope.Data.TotalSizeGB)
	assert.Len(t, envelope.Data.RecentUploads, 2)
}

func TestStatsEmptyLibrary(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerUser(t, "kim@example.com")

	resp := ts.api.Get("/api/v1/stats", "Authorization: Bearer "+auth.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[StatsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Zero(t, envelope.Data.PhotoCount)
	assert.Zero(t, envelope.Data.TotalSizeBytes)
	assert.Empty(t, envelope.Data.RecentUploads)
}
