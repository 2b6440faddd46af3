// Package classify derives a media type from a filename.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
)

// Extension tables. Lookup is case-insensitive; anything not listed is a
// document, so classification is total and never fails.
var (
	photoExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".bmp":  true,
		".webp": true,
	}

	videoExtensions = map[string]bool{
		".mp4":  true,
		".avi":  true,
		".mov":  true,
		".mkv":  true,
		".webm": true,
	}
)

// Classify returns the media type for a filename based on its extension.
// Only the final extension counts: "archive.tar.gz" is judged by ".gz".
// Files with no extension fall through to document.
func Classify(filename string) domain.MediaType {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case photoExtensions[ext]:
		return domain.MediaTypePhoto
	case videoExtensions[ext]:
		return domain.MediaTypeVideo
	default:
		return domain.MediaTypeDocument
	}
}
