package handlers

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Error message"`
}

// UserResponse represents public user data
type UserResponse struct {
	ID        string `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Email     string `json:"email" example:"user@example.com"`
	Name      string `json:"name" example:"John Doe"`
	Provider  string `json:"provider" example:"local"`
	AvatarURL string `json:"avatarUrl" example:"https://example.com/avatar.jpg"`
}

// SessionResponse is returned by login, OAuth callback and silent refresh.
// The refresh token travels only in the cookie, never in the body.
type SessionResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}
