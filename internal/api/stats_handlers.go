package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Library statistics",
		Description: "Returns counts per media type, total storage, and recent uploads. Trashed records are excluded.",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStats)
}

// StatsInput contains parameters for the stats endpoint.
type StatsInput struct {
	Authorization string `header:"Authorization"`
}

// StatsResponse contains per-user library statistics.
type StatsResponse struct {
	PhotoCount     int             `json:"photo_count" doc:"Active photos"`
	VideoCount     int             `json:"video_count" doc:"Active videos"`
	DocumentCount  int             `json:"document_count" doc:"Active documents"`
	TotalSizeBytes int64           `json:"total_size_bytes" doc:"Total size of active media in bytes"`
	TotalSizeGB    float64         `json:"total_size_gb" doc:"Total size in binary gigabytes, two decimals"`
	RecentUploads  []MediaResponse `json:"recent_uploads" doc:"Most recent active uploads"`
}

// StatsOutput wraps the stats response for Huma.
type StatsOutput struct {
	Body StatsResponse
}

func (s *Server) handleGetStats(ctx context.Context, input *StatsInput) (*StatsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.Dashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := make([]MediaResponse, len(stats.RecentUploads))
	for i, record := range stats.RecentUploads {
		recent[i] = mapMediaResponse(record)
	}

	return &StatsOutput{
		Body: StatsResponse{
			PhotoCount:     stats.PhotoCount,
			VideoCount:     stats.VideoCount,
			DocumentCount:  stats.DocumentCount,
			TotalSizeBytes: stats.TotalSizeBytes,
			TotalSizeGB:    stats.TotalSizeGB,
			RecentUploads:  recent,
		},
	}, nil
}
