package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/keepsakeapp/keepsake-server/internal/blob"
	"github.com/keepsakeapp/keepsake-server/internal/domain"
	domainerrors "github.com/keepsakeapp/keepsake-server/internal/errors"
	"github.com/keepsakeapp/keepsake-server/internal/store"
	"github.com/keepsakeapp/keepsake-server/internal/store/sqlite"
)

// SharingService resolves public share links.
//
// A share token is a bearer capability minted once at upload. Resolution
// deliberately checks nothing beyond token existence: no owner, no expiry,
// and no deletion state. Moving a record to the trash does not break its
// share link.
type SharingService struct {
	store   *sqlite.Store
	blobs   *blob.Storage
	baseURL string
	logger  *slog.Logger
}

// NewSharingService creates a sharing service. baseURL is the public origin
// share links are minted against.
func NewSharingService(store *sqlite.Store, blobs *blob.Storage, baseURL string, logger *slog.Logger) *SharingService {
	return &SharingService{
		store:   store,
		blobs:   blobs,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// ShareLink is a minted public link for one media record.
type ShareLink struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// MintLink returns the share link for a record the owner can see. The token
// already exists on the record; this only formats it as an absolute URL.
func (s *SharingService) MintLink(ctx context.Context, ownerID, mediaID string) (*ShareLink, error) {
	record, err := s.store.GetMedia(ctx, mediaID, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("media record not found")
		}
		return nil, fmt.Errorf("get media: %w", err)
	}

	return &ShareLink{
		Token: record.ShareToken,
		URL:   fmt.Sprintf("%s/api/v1/share/%s", s.baseURL, record.ShareToken),
	}, nil
}

// Resolve looks up a record by share token. Anonymous; the token is the only
// credential.
func (s *SharingService) Resolve(ctx context.Context, token string) (*domain.MediaRecord, error) {
	record, err := s.store.GetMediaByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("share link not found")
		}
		return nil, fmt.Errorf("resolve share token: %w", err)
	}
	return record, nil
}

// OpenBlob resolves a token and opens the shared bytes for streaming.
func (s *SharingService) OpenBlob(ctx context.Context, token string) (*domain.MediaRecord, io.ReadSeekCloser, error) {
	record, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.blobs.Open(record.Path)
	if err != nil {
		return nil, nil, domainerrors.Internal("stored file is missing").WithCause(err)
	}
	return record, f, nil
}
