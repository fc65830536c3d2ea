package dto

import "github.com/octobees/accounts/api/internal/entity"

// RegistrationRequest captures self-service registration payloads.
type RegistrationRequest struct {
	Username string      `json:"username" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Role     entity.Role `json:"role,omitempty"`
}

// UserSummary is the public projection of a stored user. It never carries credentials.
type UserSummary struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     entity.Role `json:"role"`
}

// NewUserSummary projects a stored user onto its public fields.
func NewUserSummary(u entity.User) UserSummary {
	return UserSummary{
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// UserPage is one page of the user listing.
type UserPage struct {
	Users    []UserSummary `json:"users"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
