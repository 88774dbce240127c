// Package dto contains Data Transfer Objects for API request and response structures
package dto

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"sales@example.com"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	User    AuthUserDTO    `json:"user"`
	Session UserSessionDTO `json:"session"`
}

// RefreshTokenRequest represents the request to exchange a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// RefreshTokenResponse represents the response with a fresh session
type RefreshTokenResponse struct {
	User    AuthUserDTO    `json:"user"`
	Session UserSessionDTO `json:"session"`
}

// LogoutResponse represents the response after logout
type LogoutResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// ChangePasswordRequest represents a password change by the authenticated user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required" example:"OldPass123!"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100" example:"NewSecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword" example:"NewSecurePass123!"`
}

// ChangePasswordResponse represents the response after a password change
type ChangePasswordResponse struct {
	Message string `json:"message" example:"Password changed successfully"`
}

// AuthUserDTO represents user information returned in authentication responses
type AuthUserDTO struct {
	ID        uint   `json:"id" example:"123"`
	UUID      string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email     string `json:"email" example:"sales@example.com"`
	FirstName string `json:"first_name" example:"Noura"`
	LastName  string `json:"last_name" example:"Al-Harbi"`
	RoleName  string `json:"role_name" example:"sales_manager"`
	BranchID  *uint  `json:"branch_id,omitempty" example:"2"`
	IsActive  *bool  `json:"is_active" example:"true"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// UserSessionDTO represents token information returned in authentication responses
type UserSessionDTO struct {
	SessionToken string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token,omitempty"`
	TokenType    string  `json:"token_type" example:"Bearer"`
	ExpiresIn    int     `json:"expires_in" example:"86400"`
	CreatedAt    string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}
