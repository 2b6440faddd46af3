package auth

// AccessClaims are the claims carried inside an access token.
type AccessClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Subject string `json:"sub"`
	TokenID string `json:"jti"`
}
