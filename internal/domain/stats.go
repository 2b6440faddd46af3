package domain

// LibraryStats summarizes one owner's non-deleted media.
// TotalSizeGB is binary (1 GB = 1024^3 bytes), rounded to two decimals.
type LibraryStats struct {
	PhotoCount     int            `json:"photo_count"`
	VideoCount     int            `json:"video_count"`
	DocumentCount  int            `json:"document_count"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	TotalSizeGB    float64        `json:"total_size_gb"`
	RecentUploads  []*MediaRecord `json:"recent_uploads"`
}
