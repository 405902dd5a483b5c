package dto

import "github.com/dimitrije/salesdesk-api/internal/models"

type MeResponse struct {
	SignedIn bool          `json:"signed_in"`
	User     *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Name  string      `json:"name,omitempty"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		Name:  user.Name(),
	}
}
