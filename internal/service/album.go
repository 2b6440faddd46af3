package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
	domainerrors "github.com/keepsakeapp/keepsake-server/internal/errors"
	"github.com/keepsakeapp/keepsake-server/internal/id"
	"github.com/keepsakeapp/keepsake-server/internal/store"
	"github.com/keepsakeapp/keepsake-server/internal/store/sqlite"
	"github.com/keepsakeapp/keepsake-server/internal/validation"
)

// AlbumService manages albums and their membership.
type AlbumService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAlbumService creates an album service.
func NewAlbumService(store *sqlite.Store, validator *validation.Validator, logger *slog.Logger) *AlbumService {
	return &AlbumService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// AlbumRequest contains album creation and rename data.
type AlbumRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// Create creates a new empty album.
func (s *AlbumService) Create(ctx context.Context, ownerID string, req AlbumRequest) (*domain.Album, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	albumID, err := id.Generate("alb")
	if err != nil {
		return nil, fmt.Errorf("generate album ID: %w", err)
	}

	album := &domain.Album{
		OwnerID:  ownerID,
		Name:     normalizeText(req.Name),
		MediaIDs: []string{},
	}
	album.ID = albumID
	album.InitTimestamps()

	if err := s.store.CreateAlbum(ctx, album); err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}

	s.logger.Info("album created", "album_id", albumID, "owner_id", ownerID)
	return album, nil
}

// Get returns a single album within the owner's scope.
func (s *AlbumService) Get(ctx context.Context, ownerID, albumID string) (*domain.Album, error) {
	album, err := s.store.GetAlbum(ctx, albumID, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("album not found")
		}
		return nil, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

// List returns all of the owner's albums.
func (s *AlbumService) List(ctx context.Context, ownerID string) ([]*domain.Album, error) {
	albums, err := s.store.ListAlbums(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	return albums, nil
}

// Rename changes an album's name.
func (s *AlbumService) Rename(ctx context.Context, ownerID, albumID string, req AlbumRequest) (*domain.Album, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.store.RenameAlbum(ctx, albumID, ownerID, normalizeText(req.Name)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("album not found")
		}
		return nil, fmt.Errorf("rename album: %w", err)
	}
	return s.Get(ctx, ownerID, albumID)
}

// Delete removes an album. Member records are never touched.
func (s *AlbumService) Delete(ctx context.Context, ownerID, albumID string) error {
	if err := s.store.DeleteAlbum(ctx, albumID, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("album not found")
		}
		return fmt.Errorf("delete album: %w", err)
	}
	s.logger.Info("album deleted", "album_id", albumID, "owner_id", ownerID)
	return nil
}

// AddMedia adds a media record to an album. The first record added to a
// coverless album becomes its cover. Adding an existing member is a no-op.
func (s *AlbumService) AddMedia(ctx context.Context, ownerID, albumID, mediaID string) (*domain.Album, error) {
	if err := s.store.AddMediaToAlbum(ctx, albumID, mediaID, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("album or media record not found")
		}
		return nil, fmt.Errorf("add media to album: %w", err)
	}
	return s.Get(ctx, ownerID, albumID)
}

// RemoveMedia removes a media record from an album. Removing the cover
// record clears the cover. Removing a non-member is a no-op.
func (s *AlbumService) RemoveMedia(ctx context.Context, ownerID, albumID, mediaID string) (*domain.Album, error) {
	if err := s.store.RemoveMediaFromAlbum(ctx, albumID, mediaID, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("album not found")
		}
		return nil, fmt.Errorf("remove media from album: %w", err)
	}
	return s.Get(ctx, ownerID, albumID)
}

// ListMedia returns one page of an album's active member records.
func (s *AlbumService) ListMedia(ctx context.Context, ownerID, albumID string, pageNum int) (store.Page[*domain.MediaRecord], error) {
	page, err := s.store.ListAlbumMedia(ctx, albumID, ownerID, store.PageRequest{Page: pageNum})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Page[*domain.MediaRecord]{}, domainerrors.NotFound("album not found")
		}
		return store.Page[*domain.MediaRecord]{}, fmt.Errorf("list album media: %w", err)
	}
	return page, nil
}
