package user

import "time"

// SignupRequest represents the signup form
type SignupRequest struct {
	Username string `form:"username" validate:"required,max=150,username"`
	Email    string `form:"email" validate:"omitempty,email,max=254"`
	Password string `form:"password" validate:"required,min=8"`
}

// LoginRequest represents the login form
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// UserResponse represents the public view of a user
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// FormResponse is returned when an auth form has to be shown again
type FormResponse struct {
	Form   map[string]string   `json:"form"`
	Errors map[string][]string `json:"errors,omitempty"`
	Next   string              `json:"next,omitempty"`
}

// TokenResponse carries a bearer token for API clients
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func newTokenResponse(token string, expiresAt time.Time) *TokenResponse {
	return &TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}
}
