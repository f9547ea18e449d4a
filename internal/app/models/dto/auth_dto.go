package dto

import "github.com/edubridge/platform/internal/app/models"

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string          `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string          `json:"password" binding:"required,min=6" example:"secret1"`
	UserType models.RoleType `json:"userType" binding:"required,role" example:"STUDENT"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"secret1"`
}

// GoogleAuthQuery is the query of GET /auth/google
type GoogleAuthQuery struct {
	UserType models.RoleType `form:"userType" binding:"omitempty,role"`
}

// GoogleCallbackQuery is the query Google redirects back with
type GoogleCallbackQuery struct {
	Code  string `form:"code" binding:"required"`
	State string `form:"state" binding:"required"`
}

// UserResponse is the user record without credentials
type UserResponse struct {
	ID        string `json:"id" example:"3f1c2a8e-6b0e-4f8a-9d7e-2b1c4d5e6f70"`
	Email     string `json:"email" example:"alice@example.com"`
	UserType  string `json:"userType" example:"STUDENT"`
	HasGoogle bool   `json:"googleLinked"`
	CreatedAt string `json:"createdAt" example:"2025-04-23T12:01:05Z"`
}

// NewUserResponse strips credentials from a user
func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		UserType:  string(u.RoleType),
		HasGoogle: u.HasGoogleID(),
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// AuthResponse is returned by register, login and the OAuth callback
type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

// MeResponse is returned by GET /auth/me
type MeResponse struct {
	User *UserResponse `json:"user"`
}
