package dto

import "time"

// LoginRequest payload for login.
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// TokenResponse is the body returned by login and refresh. The major token
// never appears here; it travels only in the HttpOnly cookie.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Usuario     *UserResponse `json:"usuario,omitempty"`
}
