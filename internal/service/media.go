package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakeapp/keepsake-server/internal/blob"
	"github.com/keepsakeapp/keepsake-server/internal/domain"
	domainerrors "github.com/keepsakeapp/keepsake-server/internal/errors"
	"github.com/keepsakeapp/keepsake-server/internal/id"
	"github.com/keepsakeapp/keepsake-server/internal/media/classify"
	"github.com/keepsakeapp/keepsake-server/internal/media/images"
	"github.com/keepsakeapp/keepsake-server/internal/store"
	"github.com/keepsakeapp/keepsake-server/internal/store/sqlite"
	"github.com/keepsakeapp/keepsake-server/internal/validation"
)

const (
	maxCategoryLength = 64
	maxTagsLength     = 256
)

// blurHashSizeLimit caps how much of an upload is buffered for placeholder
// computation. Larger photos simply skip the placeholder.
const blurHashSizeLimit = 32 << 20

// MediaService handles uploads and the media record lifecycle.
type MediaService struct {
	store     *sqlite.Store
	blobs     *blob.Storage
	validator *validation.Validator
	logger    *slog.Logger
}

// NewMediaService creates a media service.
func NewMediaService(store *sqlite.Store, blobs *blob.Storage, validator *validation.Validator, logger *slog.Logger) *MediaService {
	return &MediaService{
		store:     store,
		blobs:     blobs,
		validator: validator,
		logger:    logger,
	}
}

// UploadRequest describes one file upload.
type UploadRequest struct {
	Filename string
	Category string
	Tags     string
	Data     io.Reader
}

// Upload stores the file bytes and creates the media record. The type is
// classified from the filename extension, the size comes from the blob store,
// and the share token is minted here, exactly once.
func (s *MediaService) Upload(ctx context.Context, ownerID string, req UploadRequest) (*domain.MediaRecord, error) {
	if req.Filename == "" {
		return nil, domainerrors.Validation("filename is required")
	}
	if req.Data == nil {
		return nil, domainerrors.Validation("file data is required")
	}
	category := normalizeText(req.Category)
	if len(category) > maxCategoryLength {
		return nil, domainerrors.Validationf("category must not exceed %d characters", maxCategoryLength)
	}
	tags := normalizeText(req.Tags)
	if len(tags) > maxTagsLength {
		return nil, domainerrors.Validationf("tags must not exceed %d characters", maxTagsLength)
	}

	mediaType := classify.Classify(req.Filename)

	// Photos pass through a buffer so a placeholder can be computed from the
	// same bytes that get stored.
	data := req.Data
	var photoBuf *bytes.Buffer
	if mediaType == domain.MediaTypePhoto {
		photoBuf = &bytes.Buffer{}
		data = io.TeeReader(req.Data, photoBuf)
	}

	path, size, err := s.blobs.Save(data, req.Filename)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	var blurHash string
	if photoBuf != nil && photoBuf.Len() <= blurHashSizeLimit {
		blurHash, err = images.ComputeBlurHash(photoBuf)
		if err != nil {
			// A failed placeholder never fails the upload.
			s.logger.Debug("blurhash skipped", "filename", req.Filename, "error", err)
			blurHash = ""
		}
	}

	mediaID, err := id.Generate("med")
	if err != nil {
		s.cleanupBlob(path)
		return nil, fmt.Errorf("generate media ID: %w", err)
	}

	record := &domain.MediaRecord{
		OwnerID:      ownerID,
		Path:         path,
		OriginalName: normalizeText(req.Filename),
		Size:         size,
		MediaType:    mediaType,
		Category:     category,
		Tags:         tags,
		BlurHash:     blurHash,
		ShareToken:   uuid.NewString(),
	}
	record.ID = mediaID
	record.InitTimestamps()

	if err := s.store.CreateMedia(ctx, record); err != nil {
		s.cleanupBlob(path)
		return nil, fmt.Errorf("create media record: %w", err)
	}

	s.logger.Info("media uploaded",
		"media_id", mediaID,
		"owner_id", ownerID,
		"type", mediaType,
		"size", size,
	)

	return record, nil
}

func (s *MediaService) cleanupBlob(path string) {
	if err := s.blobs.Delete(path); err != nil {
		s.logger.Warn("orphaned blob left behind", "path", path, "error", err)
	}
}

// Get returns a single media record within the owner's scope.
func (s *MediaService) Get(ctx context.Context, ownerID, mediaID string) (*domain.MediaRecord, error) {
	record, err := s.store.GetMedia(ctx, mediaID, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("media record not found")
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return record, nil
}

// OpenBlob opens the stored bytes for a record the owner can see.
func (s *MediaService) OpenBlob(ctx context.Context, ownerID, mediaID string) (*domain.MediaRecord, io.ReadSeekCloser, error) {
	record, err := s.Get(ctx, ownerID, mediaID)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.blobs.Open(record.Path)
	if err != nil {
		return nil, nil, domainerrors.Internal("stored file is missing").WithCause(err)
	}
	return record, f, nil
}

// ListRequest selects and filters one page of media.
type ListRequest struct {
	Type      string
	Category  string
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	Favorite  bool
	Query     string
	Page      int
}

// List returns one page of the owner's active media, filtered. All supplied
// constraints AND together; Query is a case-insensitive substring match
// against filename, tags, or category.
func (s *MediaService) List(ctx context.Context, ownerID string, req ListRequest) (store.Page[*domain.MediaRecord], error) {
	var zero store.Page[*domain.MediaRecord]

	filter := store.MediaFilter{
		Scope:        store.ScopeActive,
		Category:     normalizeText(req.Category),
		FavoriteOnly: req.Favorite,
		Query:        normalizeText(req.Query),
	}

	if req.Type != "" {
		mediaType, ok := domain.ParseMediaType(req.Type)
		if !ok {
			return zero, domainerrors.Validationf("invalid media type %q", req.Type)
		}
		filter.MediaType = mediaType
	}

	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return zero, domainerrors.Validation("start_date must be YYYY-MM-DD")
		}
		filter.Start = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return zero, domainerrors.Validation("end_date must be YYYY-MM-DD")
		}
		// Inclusive: cover the whole end day.
		endOfDay := end.Add(24*time.Hour - time.Nanosecond)
		filter.End = &endOfDay
	}

	page, err := s.store.ListMedia(ctx, ownerID, filter, store.PageRequest{Page: req.Page})
	if err != nil {
		return zero, fmt.Errorf("list media: %w", err)
	}
	return page, nil
}

// Search returns one page of active media matching the free-text query.
func (s *MediaService) Search(ctx context.Context, ownerID, query string, pageNum int) (store.Page[*domain.MediaRecord], error) {
	return s.List(ctx, ownerID, ListRequest{Query: query, Page: pageNum})
}

// ListTrash returns one page of the owner's soft-deleted media.
func (s *MediaService) ListTrash(ctx context.Context, ownerID string, pageNum int) (store.Page[*domain.MediaRecord], error) {
	page, err := s.store.ListMedia(ctx, ownerID,
		store.MediaFilter{Scope: store.ScopeTrash},
		store.PageRequest{Page: pageNum})
	if err != nil {
		return store.Page[*domain.MediaRecord]{}, fmt.Errorf("list trash: %w", err)
	}
	return page, nil
}

// Delete moves a record to the trash. Idempotent.
func (s *MediaService) Delete(ctx context.Context, ownerID, mediaID string) error {
	if err := s.store.SoftDeleteMedia(ctx, mediaID, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("media record not found")
		}
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

// Restore brings a record back from the trash. Idempotent.
func (s *MediaService) Restore(ctx context.Context, ownerID, mediaID string) error {
	if err := s.store.RestoreMedia(ctx, mediaID, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("media record not found")
		}
		return fmt.Errorf("restore media: %w", err)
	}
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *MediaService) ToggleFavorite(ctx context.Context, ownerID, mediaID string) (bool, error) {
	fav, err := s.store.ToggleFavorite(ctx, mediaID, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, domainerrors.NotFound("media record not found")
		}
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return fav, nil
}
