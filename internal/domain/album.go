package domain

import "slices"

// Album is a named grouping of media records for one owner.
// Membership is many-to-many: a record may sit in any number of albums.
// CoverMediaID points at one member record; it is assigned automatically to
// the first record added when no cover is set, and nulled if that record is
// removed from the album.
type Album struct {
	Entity
	OwnerID      string   `json:"owner_id"`
	Name         string   `json:"name"`
	CoverMediaID *string  `json:"cover_media_id,omitempty"`
	MediaIDs     []string `json:"media_ids"`
}

// ContainsMedia checks if a media ID is a member of this album.
func (a *Album) ContainsMedia(mediaID string) bool {
	return slices.Contains(a.MediaIDs, mediaID)
}

// HasCover returns true if a cover record is assigned.
func (a *Album) HasCover() bool {
	return a.CoverMediaID != nil && *a.CoverMediaID != ""
}
