package dto

// Request DTOs

type RegisterRequest struct {
	Username     string `json:"username" validate:"required,max=100"`
	Password     string `json:"password" validate:"required,max_bytes=72"`
	Name         string `json:"name" validate:"omitempty,max=255"`
	ProfileImage string `json:"profile_image" validate:"omitempty,max=500"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

// UserResponse is the user projection safe to return to clients.
type UserResponse struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	ProfileImage *string `json:"profile_image"`
	Name         *string `json:"name"`
}

type RegisterResponse struct {
	UserID int64 `json:"userId"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}
