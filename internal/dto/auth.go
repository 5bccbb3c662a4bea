package dto

// ── auth module ──

// LoginRequest email + password login
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// TokenResponse issued access token
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        UserResponse `json:"user"`
}

// PermissionsResponse caller's role capabilities
type PermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Routes      []string `json:"routes"`
	Features    []string `json:"features"`
}
