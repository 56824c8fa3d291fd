package dto

// AdminLoginRequest represents the request payload for admin login
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64" example:"admin"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// AdminLoginResponse represents the successful login response body
type AdminLoginResponse struct {
	Username    string `json:"username" example:"admin"`
	LastLoginAt string `json:"last_login_at,omitempty" example:"2025-01-15T10:30:00Z"`
	ExpiresIn   int    `json:"expires_in" example:"86400"`
}

// AuthCheckResponse reports whether the caller holds a live admin session
type AuthCheckResponse struct {
	Authenticated bool   `json:"authenticated" example:"true"`
	Username      string `json:"username,omitempty" example:"admin"`
}
