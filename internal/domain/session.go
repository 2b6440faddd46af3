package domain

import "time"

// Session tracks one refresh-token grant for a user.
// Only a SHA-256 hash of the opaque refresh token is stored; the token
// itself is handed to the client once and never persisted.
type Session struct {
	Entity
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// IsExpired returns true once the session's refresh token can no longer be used.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
