package store

import (
	"time"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
)

// Scope selects which deletion states a media listing covers.
// There is deliberately no implicit default inside the store: every caller
// states whether it wants active records, the trash, or everything, so new
// call sites cannot accidentally leak deleted items.
type Scope int

const (
	// ScopeActive lists only non-deleted records.
	ScopeActive Scope = iota
	// ScopeTrash lists only soft-deleted records.
	ScopeTrash
	// ScopeAll lists records regardless of deletion state.
	ScopeAll
)

// MediaFilter is the composable view over one owner's media records.
// All supplied constraints combine with AND; zero values impose none.
// The free-text Query is the one OR: it matches a case-insensitive
// substring of the original filename, the tags, or the category.
type MediaFilter struct {
	Scope        Scope
	MediaType    domain.MediaType // exact match when non-empty
	Category     string           // exact match when non-empty
	FavoriteOnly bool
	Start        *time.Time // inclusive lower bound on upload time
	End          *time.Time // inclusive upper bound on upload time
	Query        string
}

// IsZero reports whether the filter constrains anything beyond its scope.
func (f MediaFilter) IsZero() bool {
	return f.MediaType == "" && f.Category == "" && !f.FavoriteOnly &&
		f.Start == nil && f.End == nil && f.Query == ""
}
