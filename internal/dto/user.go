package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a staff user (admin only).
type CreateUserRequest struct {
	Name     string          `json:"name" binding:"required"`
	Phone    string          `json:"phone" binding:"required,phone"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     string          `json:"role" binding:"omitempty,oneof=user admin"`
	Balance  decimal.Decimal `json:"balance"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateUserRequest struct {
	Name     *string          `json:"name"`
	Phone    *string          `json:"phone" binding:"omitempty,phone"`
	Role     *string          `json:"role" binding:"omitempty,oneof=user admin"`
	Balance  *decimal.Decimal `json:"balance"`
	IsActive *bool            `json:"isActive"`
}

// BalanceAdjustmentRequest carries an administrative add/deduct amount.
type BalanceAdjustmentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// UserResponse is the outward shape of a user; the credential hash never leaves.
type UserResponse struct {
	UserID   string          `json:"userID"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Role     string          `json:"role"`
	Balance  decimal.Decimal `json:"balance"`
	IsActive bool            `json:"isActive"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Name:     u.Name,
		Phone:    u.Phone,
		Role:     string(u.Role),
		Balance:  u.Balance,
		IsActive: u.IsActive,
	}
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{Users: userResponses}
}
