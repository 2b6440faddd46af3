package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
	"github.com/keepsakeapp/keepsake-server/internal/service"
)

func (s *Server) registerAlbumRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createAlbum",
		Method:      http.MethodPost,
		Path:        "/api/v1/albums",
		Summary:     "Create album",
		Description: "Creates a new empty album",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAlbums",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums",
		Summary:     "List albums",
		Description: "Returns all of the user's albums, newest first",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAlbums)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAlbum",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Get album",
		Description: "Returns a single album with its member IDs",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameAlbum",
		Method:      http.MethodPatch,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Rename album",
		Description: "Changes an album's name",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAlbum",
		Method:      http.MethodDelete,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Delete album",
		Description: "Removes an album. Member media records are never touched.",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "addAlbumMedia",
		Method:      http.MethodPost,
		Path:        "/api/v1/albums/{id}/media",
		Summary:     "Add media to album",
		Description: "Adds a media record to an album. The first record added to a coverless album becomes its cover.",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddAlbumMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeAlbumMedia",
		Method:      http.MethodDelete,
		Path:        "/api/v1/albums/{id}/media/{mediaID}",
		Summary:     "Remove media from album",
		Description: "Removes a media record from an album. Removing the cover clears it.",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveAlbumMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAlbumMedia",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums/{id}/media",
		Summary:     "List album media",
		Description: "Returns one page of an album's active member records",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAlbumMedia)
}

// === DTOs ===

// AlbumResponse contains album data in API responses.
type AlbumResponse struct {
	ID           string    `json:"id" doc:"Album ID"`
	Name         string    `json:"name" doc:"Album name"`
	CoverMediaID *string   `json:"cover_media_id,omitempty" doc:"Cover media record ID"`
	MediaIDs     []string  `json:"media_ids" doc:"Member media record IDs in add order"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update time"`
}

// AlbumOutput wraps a single album response for Huma.
type AlbumOutput struct {
	Body AlbumResponse
}

// ListAlbumsResponse contains all of a user's albums.
type ListAlbumsResponse struct {
	Albums []AlbumResponse `json:"albums" doc:"Albums, newest first"`
}

// ListAlbumsOutput wraps the album list for Huma.
type ListAlbumsOutput struct {
	Body ListAlbumsResponse
}

// AlbumRequest is the request body for creating or renaming an album.
type AlbumRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128" doc:"Album name"`
}

// CreateAlbumInput wraps the create album request for Huma.
type CreateAlbumInput struct {
	Authorization string `header:"Authorization"`
	Body          AlbumRequest
}

// ListAlbumsInput contains parameters for listing albums.
type ListAlbumsInput struct {
	Authorization string `header:"Authorization"`
}

// AlbumIDInput identifies a single album.
type AlbumIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
}

// RenameAlbumInput wraps the rename request for Huma.
type RenameAlbumInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
	Body          AlbumRequest
}

// AddAlbumMediaRequest is the request body for adding media to an album.
type AddAlbumMediaRequest struct {
	MediaID string `json:"media_id" validate:"required" doc:"Media record ID to add"`
}

// AddAlbumMediaInput wraps the add media request for Huma.
type AddAlbumMediaInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
	Body          AddAlbumMediaRequest
}

// RemoveAlbumMediaInput identifies an album member to remove.
type RemoveAlbumMediaInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
	MediaID       string `path:"mediaID" doc:"Media record ID to remove"`
}

// ListAlbumMediaInput contains paging parameters for an album's media.
type ListAlbumMediaInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
	Page          int    `query:"page" doc:"Page number (1-based)"`
}

// === Handlers ===

func (s *Server) handleCreateAlbum(ctx context.Context, input *CreateAlbumInput) (*AlbumOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	album, err := s.services.Album.Create(ctx, userID, service.AlbumRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &AlbumOutput{Body: mapAlbumResponse(album)}, nil
}

func (s *Server) handleListAlbums(ctx context.Context, input *ListAlbumsInput) (*ListAlbumsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	albums, err := s.services.Album.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]AlbumResponse, len(albums))
	for i, album := range albums {
		resp[i] = mapAlbumResponse(album)
	}

	return &ListAlbumsOutput{Body: ListAlbumsResponse{Albums: resp}}, nil
}

func (s *Server) handleGetAlbum(ctx context.Context, input *AlbumIDInput) (*AlbumOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	album, err := s.services.Album.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &AlbumOutput{Body: mapAlbumResponse(album)}, nil
}

func (s *Server) handleRenameAlbum(ctx context.Context, input *RenameAlbumInput) (*AlbumOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	album, err := s.services.Album.Rename(ctx, userID, input.ID, service.AlbumRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &AlbumOutput{Body: mapAlbumResponse(album)}, nil
}

func (s *Server) handleDeleteAlbum(ctx context.Context, input *AlbumIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Album.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Album deleted"}}, nil
}

func (s *Server) handleAddAlbumMedia(ctx context.Context, input *AddAlbumMediaInput) (*AlbumOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	album, err := s.services.Album.AddMedia(ctx, userID, input.ID, input.Body.MediaID)
	if err != nil {
		return nil, err
	}

	return &AlbumOutput{Body: mapAlbumResponse(album)}, nil
}

func (s *Server) handleRemoveAlbumMedia(ctx context.Context, input *RemoveAlbumMediaInput) (*AlbumOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	album, err := s.services.Album.RemoveMedia(ctx, userID, input.ID, input.MediaID)
	if err != nil {
		return nil, err
	}

	return &AlbumOutput{Body: mapAlbumResponse(album)}, nil
}

func (s *Server) handleListAlbumMedia(ctx context.Context, input *ListAlbumMediaInput) (*MediaPageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Album.ListMedia(ctx, userID, input.ID, input.Page)
	if err != nil {
		return nil, err
	}

	return &MediaPageOutput{Body: mapMediaPage(page)}, nil
}

// === Helpers ===

func mapAlbumResponse(album *domain.Album) AlbumResponse {
	mediaIDs := album.MediaIDs
	if mediaIDs == nil {
		mediaIDs = []string{}
	}
	return AlbumResponse{
		ID:           album.ID,
		Name:         album.Name,
		CoverMediaID: album.CoverMediaID,
		MediaIDs:     mediaIDs,
		CreatedAt:    album.CreatedAt,
		UpdatedAt:    album.UpdatedAt,
	}
}
