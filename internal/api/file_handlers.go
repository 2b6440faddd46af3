package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/keepsakeapp/keepsake-server/internal/errors"
	"github.com/keepsakeapp/keepsake-server/internal/service"
)

// uploadMemoryLimit is how much of a multipart body is held in memory before
// spilling to temp files.
const uploadMemoryLimit = 32 << 20

// Cache-Control header values.
const (
	cacheOneDayPrivate = "private, max-age=86400"
	cacheOneDay        = "public, max-age=86400"
)

// handleUpload accepts a multipart file upload.
// POST /api/v1/media
// Form fields: file (required), category, tags.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := GetUserID(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)

	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, &APIError{
				status:  http.StatusRequestEntityTooLarge,
				Code:    string(domainerrors.CodeValidation),
				Message: fmt.Sprintf("upload exceeds the maximum size of %d bytes", s.maxUploadSize),
			})
			return
		}
		s.writeError(w, domainerrors.Validation("invalid multipart form"))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, domainerrors.Validation("file field is required"))
		return
	}
	defer file.Close()

	record, err := s.services.Media.Upload(ctx, userID, service.UploadRequest{
		Filename: header.Filename,
		Category: r.FormValue("category"),
		Tags:     r.FormValue("tags"),
		Data:     file,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, http.StatusCreated, mapMediaResponse(record))
}

// handleDownloadMedia streams a stored file back to its owner with HTTP
// Range support.
// GET /api/v1/media/{id}/download
func (s *Server) handleDownloadMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := GetUserID(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	record, f, err := s.services.Media.OpenBlob(ctx, userID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentTypeFor(record.OriginalName))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", record.OriginalName))
	w.Header().Set("Cache-Control", cacheOneDayPrivate)

	// ServeContent handles Range requests, Content-Length, and
	// Last-Modified caching.
	http.ServeContent(w, r, record.OriginalName, record.UpdatedAt, f)
}

// handleDownloadShared streams a shared file to anyone holding the token.
// GET /api/v1/share/{token}/download
func (s *Server) handleDownloadShared(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, f, err := s.services.Sharing.OpenBlob(ctx, chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentTypeFor(record.OriginalName))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", record.OriginalName))
	w.Header().Set("Cache-Control", cacheOneDay)

	http.ServeContent(w, r, record.OriginalName, record.UpdatedAt, f)
}

// contentTypeFor guesses a Content-Type from the filename extension.
func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
