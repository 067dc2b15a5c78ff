package admin

import "time"

// Config drives operator authentication.
type Config struct {
	// Enabled guards the configuration routes with a bearer token.
	Enabled      bool
	Username     string
	PasswordHash string
	Secret       string
	TokenTTL     time.Duration
}

// LoginRequest captures operator credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims are extracted from a validated token.
type Claims struct {
	Username  string
	ExpiresAt time.Time
}
