package models

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type DFBCredentialsRequest struct {
	DFBUsername string `json:"dfb_username" binding:"required"`
	DFBPassword string `json:"dfb_password" binding:"required"`
}

// GenerateRequest carries no fields: DFBnet credentials are loaded from the
// caller's profile, never from the request body.
type GenerateRequest struct{}
