package dto

import (
	"time"

	"github.com/spec-kit/expense-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPublic is the externally visible view of a user. The password hash is never included.
type UserPublic struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Username    string      `json:"username"`
	Role        domain.Role `json:"role"`
	IsSuspended bool        `json:"is_suspended"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      UserPublic `json:"user"`
}

// NewUserPublic maps a domain user to its public view.
func NewUserPublic(user *domain.User) UserPublic {
	return UserPublic{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		Role:        user.Role,
		IsSuspended: user.IsSuspended,
	}
}

// NewUserList maps users to public views.
func NewUserList(users []domain.User) []UserPublic {
	items := make([]UserPublic, 0, len(users))
	for i := range users {
		items = append(items, NewUserPublic(&users[i]))
	}
	return items
}
