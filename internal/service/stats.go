package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
	"github.com/keepsakeapp/keepsake-server/internal/store"
	"github.com/keepsakeapp/keepsake-server/internal/store/sqlite"
)

// StatsService aggregates per-owner library statistics.
type StatsService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewStatsService creates a stats service.
func NewStatsService(store *sqlite.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: store, logger: logger}
}

// Dashboard summarizes the owner's non-deleted media: counts per type, total
// size, and the most recent uploads. Trashed records are invisible here.
func (s *StatsService) Dashboard(ctx context.Context, ownerID string) (*domain.LibraryStats, error) {
	counts, totalSize, err := s.store.MediaTypeCounts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("media counts: %w", err)
	}

	recent, err := s.store.RecentMedia(ctx, ownerID, store.PageSize)
	if err != nil {
		return nil, fmt.Errorf("recent media: %w", err)
	}
	if recent == nil {
		recent = []*domain.MediaRecord{}
	}

	return &domain.LibraryStats{
		PhotoCount:     counts[domain.MediaTypePhoto],
		VideoCount:     counts[domain.MediaTypeVideo],
		DocumentCount:  counts[domain.MediaTypeDocument],
		TotalSizeBytes: totalSize,
		TotalSizeGB:    binaryGB(totalSize),
		RecentUploads:  recent,
	}, nil
}

// binaryGB converts bytes to binary gigabytes (1024^3), rounded to two
// decimal places.
func binaryGB(bytes int64) float64 {
	gb := float64(bytes) / (1 << 30)
	return math.Round(gb*100) / 100
}
