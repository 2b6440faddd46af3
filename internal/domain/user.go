package domain

// User is an authenticated account. The media core only ever consumes the
// ID; everything else exists so people can log in.
type User struct {
	Entity
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Argon2id encoded hash, never serialized
	DisplayName  string `json:"display_name"`
}
