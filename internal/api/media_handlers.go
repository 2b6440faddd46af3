package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
	"github.com/keepsakeapp/keepsake-server/internal/service"
	"github.com/keepsakeapp/keepsake-server/internal/store"
)

func (s *Server) registerMediaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMedia",
		Method:      http.MethodGet,
		Path:        "/api/v1/media",
		Summary:     "List media",
		Description: "Returns one page of the user's media, filtered. All filters combine; q matches filename, tags, or category.",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTrash",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/trash",
		Summary:     "List trash",
		Description: "Returns one page of the user's soft-deleted media",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTrash)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMedia",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/{id}",
		Summary:     "Get media",
		Description: "Returns a single media record",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMedia",
		Method:      http.MethodDelete,
		Path:        "/api/v1/media/{id}",
		Summary:     "Move media to trash",
		Description: "Soft-deletes a media record. Deleting an already trashed record is a no-op.",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "restoreMedia",
		Method:      http.MethodPost,
		Path:        "/api/v1/media/{id}/restore",
		Summary:     "Restore media from trash",
		Description: "Restores a soft-deleted media record. Restoring an active record is a no-op.",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRestoreMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/media/{id}/favorite",
		Summary:     "Toggle favorite",
		Description: "Flips the favorite flag and returns the new value",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShareLink",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/{id}/share-link",
		Summary:     "Get share link",
		Description: "Returns the public share link for a media record. The token is fixed at upload time.",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShareLink)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchMedia",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search media",
		Description: "Free-text search over filename, tags, and category of active media",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchMedia)
}

// === DTOs ===

// MediaResponse contains media record data in API responses.
type MediaResponse struct {
	ID           string     `json:"id" doc:"Media record ID"`
	OriginalName string     `json:"original_name" doc:"Filename as uploaded"`
	Size         int64      `json:"size" doc:"Size in bytes"`
	MediaType    string     `json:"media_type" doc:"photo, video, or document"`
	Category     string     `json:"category,omitempty" doc:"User-assigned category"`
	Tags         string     `json:"tags,omitempty" doc:"Comma-separated tags"`
	BlurHash     string     `json:"blur_hash,omitempty" doc:"Placeholder hash for photos"`
	IsFavorite   bool       `json:"is_favorite" doc:"Favorite flag"`
	IsDeleted    bool       `json:"is_deleted" doc:"Whether the record is in the trash"`
	CreatedAt    time.Time  `json:"created_at" doc:"Upload time"`
	UpdatedAt    time.Time  `json:"updated_at" doc:"Last modification time"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" doc:"Soft-delete time, if trashed"`
}

// MediaPageResponse contains one page of media records.
type MediaPageResponse struct {
	Items    []MediaResponse `json:"items" doc:"Media records"`
	Page     int             `json:"page" doc:"Page number (1-based)"`
	PageSize int             `json:"page_size" doc:"Fixed page size"`
	HasMore  bool            `json:"has_more" doc:"Whether another page exists"`
}

// MediaOutput wraps a single media response for Huma.
type MediaOutput struct {
	Body MediaResponse
}

// MediaPageOutput wraps a media page response for Huma.
type MediaPageOutput struct {
	Body MediaPageResponse
}

// ListMediaInput contains the filter and paging parameters for media listing.
type ListMediaInput struct {
	Authorization string `header:"Authorization"`
	Type          string `query:"type" doc:"Filter by media type (photo, video, document)"`
	Category      string `query:"category" doc:"Filter by exact category"`
	StartDate     string `query:"start_date" doc:"Inclusive lower bound, YYYY-MM-DD"`
	EndDate       string `query:"end_date" doc:"Inclusive upper bound, YYYY-MM-DD"`
	Favorite      bool   `query:"favorite" doc:"Only favorites"`
	Query         string `query:"q" doc:"Free-text search over filename, tags, and category"`
	Page          int    `query:"page" doc:"Page number (1-based)"`
}

// PagedInput contains paging parameters for listings without filters.
type PagedInput struct {
	Authorization string `header:"Authorization"`
	Page          int    `query:"page" doc:"Page number (1-based)"`
}

// SearchInput contains free-text search parameters.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Free-text search over filename, tags, and category"`
	Page          int    `query:"page" doc:"Page number (1-based)"`
}

// MediaIDInput identifies a single media record.
type MediaIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Media record ID"`
}

// FavoriteResponse reports the favorite flag after a toggle.
type FavoriteResponse struct {
	ID         string `json:"id" doc:"Media record ID"`
	IsFavorite bool   `json:"is_favorite" doc:"New favorite value"`
}

// FavoriteOutput wraps the favorite response for Huma.
type FavoriteOutput struct {
	Body FavoriteResponse
}

// ShareLinkResponse contains a public share link.
type ShareLinkResponse struct {
	Token string `json:"token" doc:"Share token"`
	URL   string `json:"url" doc:"Absolute share URL"`
}

// ShareLinkOutput wraps the share link response for Huma.
type ShareLinkOutput struct {
	Body ShareLinkResponse
}

// === Handlers ===

func (s *Server) handleListMedia(ctx context.Context, input *ListMediaInput) (*MediaPageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Media.List(ctx, userID, service.ListRequest{
		Type:      input.Type,
		Category:  input.Category,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Favorite:  input.Favorite,
		Query:     input.Query,
		Page:      input.Page,
	})
	if err != nil {
		return nil, err
	}

	return &MediaPageOutput{Body: mapMediaPage(page)}, nil
}

func (s *Server) handleSearchMedia(ctx context.Context, input *SearchInput) (*MediaPageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Media.Search(ctx, userID, input.Query, input.Page)
	if err != nil {
		return nil, err
	}

	return &MediaPageOutput{Body: mapMediaPage(page)}, nil
}

func (s *Server) handleListTrash(ctx context.Context, input *PagedInput) (*MediaPageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Media.ListTrash(ctx, userID, input.Page)
	if err != nil {
		return nil, err
	}

	return &MediaPageOutput{Body: mapMediaPage(page)}, nil
}

func (s *Server) handleGetMedia(ctx context.Context, input *MediaIDInput) (*MediaOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	record, err := s.services.Media.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &MediaOutput{Body: mapMediaResponse(record)}, nil
}

func (s *Server) handleDeleteMedia(ctx context.Context, input *MediaIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Media.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Media moved to trash"}}, nil
}

func (s *Server) handleRestoreMedia(ctx context.Context, input *MediaIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Media.Restore(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Media restored"}}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *MediaIDInput) (*FavoriteOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	fav, err := s.services.Media.ToggleFavorite(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &FavoriteOutput{Body: FavoriteResponse{ID: input.ID, IsFavorite: fav}}, nil
}

func (s *Server) handleGetShareLink(ctx context.Context, input *MediaIDInput) (*ShareLinkOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	link, err := s.services.Sharing.MintLink(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ShareLinkOutput{Body: ShareLinkResponse{Token: link.Token, URL: link.URL}}, nil
}

// === Helpers ===

func mapMediaResponse(record *domain.MediaRecord) MediaResponse {
	return MediaResponse{
		ID:           record.ID,
		OriginalName: record.OriginalName,
		Size:         record.Size,
		MediaType:    record.MediaType.String(),
		Category:     record.Category,
		Tags:         record.Tags,
		BlurHash:     record.BlurHash,
		IsFavorite:   record.IsFavorite,
		IsDeleted:    record.IsDeleted(),
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
		DeletedAt:    record.DeletedAt,
	}
}

func mapMediaPage(page store.Page[*domain.MediaRecord]) MediaPageResponse {
	items := make([]MediaResponse, len(page.Items))
	for i, record := range page.Items {
		items[i] = mapMediaResponse(record)
	}
	return MediaPageResponse{
		Items:    items,
		Page:     page.PageNum,
		PageSize: page.PageSize,
		HasMore:  page.HasMore,
	}
}
