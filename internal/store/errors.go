// Package store defines storage-facing types shared by store implementations
// and their callers: sentinel errors, the media list filter, and pagination.
package store

import "errors"

// Sentinel errors returned by store implementations.
// The API layer translates these into HTTP responses; callers must never
// learn whether a record exists but belongs to someone else.
var (
	// ErrNotFound is returned when no record matches the lookup within the
	// caller's ownership scope.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned on unique-constraint violations
	// (duplicate IDs, emails, share tokens).
	ErrAlreadyExists = errors.New("already exists")
)
