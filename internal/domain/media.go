package domain

import "time"

// MediaType is the broad category a record is filed under.
// It is derived exactly once, at upload time, from the file extension.
type MediaType string

const (
	// MediaTypePhoto covers still images (jpg, jpeg, png, gif, bmp, webp).
	MediaTypePhoto MediaType = "photo"
	// MediaTypeVideo covers moving pictures (mp4, avi, mov, mkv, webm).
	MediaTypeVideo MediaType = "video"
	// MediaTypeDocument is the fallback for everything else.
	MediaTypeDocument MediaType = "document"
)

// ParseMediaType converts a string into a MediaType.
// Returns false if the string is not a known type.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaTypePhoto, MediaTypeVideo, MediaTypeDocument:
		return MediaType(s), true
	}
	return "", false
}

// String returns the string representation of a MediaType.
func (t MediaType) String() string {
	return string(t)
}

// MediaRecord is one uploaded item with type, ownership, and lifecycle flags.
//
// Size is always the byte count reported by the blob store when the bytes
// were written, never a client-supplied value. ShareToken is minted at
// creation and immutable; knowing it grants anonymous read access to this
// record regardless of deletion state.
type MediaRecord struct {
	Entity
	OwnerID      string     `json:"owner_id"`
	Path         string     `json:"path"`
	OriginalName string     `json:"original_name"`
	Size         int64      `json:"size"`
	MediaType    MediaType  `json:"media_type"`
	Category     string     `json:"category,omitempty"`
	Tags         string     `json:"tags,omitempty"`
	BlurHash     string     `json:"blur_hash,omitempty"`
	IsFavorite   bool       `json:"is_favorite"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	ShareToken   string     `json:"-"`
}

// IsDeleted returns true if this record has been soft-deleted.
func (m *MediaRecord) IsDeleted() bool {
	return m.DeletedAt != nil
}

// MarkDeleted soft-deletes the record. Calling it on an already-deleted
// record keeps the original deletion time.
func (m *MediaRecord) MarkDeleted() {
	if m.DeletedAt != nil {
		return
	}
	now := time.Now()
	m.DeletedAt = &now
	m.UpdatedAt = now
}

// Restore clears the soft-delete flag. A no-op on active records.
func (m *MediaRecord) Restore() {
	if m.DeletedAt == nil {
		return
	}
	m.DeletedAt = nil
	m.Touch()
}
