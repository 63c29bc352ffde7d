package model

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

type User struct {
	UserID             int64  `json:"userId"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               Role   `json:"role"`
	MobileNo           string `json:"mobileNo"`
	Address            string `json:"address"`
	MessProvidedUserID string `json:"messProvidedUserId,omitempty"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

// ID is the row identity used by paginated tables.
func (u User) ID() int64 {
	return u.UserID
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the body of POST /auth/login. The refresh credential normally
// travels in an http-only cookie and is absent here.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType"`
	UserID       int64  `json:"userId"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
}

type RegisterRequest struct {
	Name               string `json:"name" validate:"required"`
	MobileNo           string `json:"mobileNo" validate:"required"`
	Email              string `json:"email" validate:"required,email"`
	Address            string `json:"address" validate:"required"`
	Password           string `json:"password" validate:"required,min=6"`
	MessProvidedUserID string `json:"messProvidedUserId,omitempty"`
}

type AdminCreateUserRequest struct {
	Name               string `json:"name" validate:"required"`
	MobileNo           string `json:"mobileNo" validate:"required"`
	Email              string `json:"email" validate:"required,email"`
	Address            string `json:"address" validate:"required"`
	Password           string `json:"password" validate:"required,min=6"`
	MessProvidedUserID string `json:"messProvidedUserId,omitempty"`
	Role               Role   `json:"role" validate:"required,oneof=STUDENT ADMIN"`
}

type AdminUpdateUserRequest struct {
	Name               string `json:"name,omitempty"`
	MobileNo           string `json:"mobileNo,omitempty"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	Address            string `json:"address,omitempty"`
	MessProvidedUserID string `json:"messProvidedUserId,omitempty"`
	Role               Role   `json:"role,omitempty" validate:"omitempty,oneof=STUDENT ADMIN"`
	Password           string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// UserUpdateRequest must change at least one field.
type UserUpdateRequest struct {
	Name     string `json:"name,omitempty" validate:"required_without_all=MobileNo Address"`
	MobileNo string `json:"mobileNo,omitempty"`
	Address  string `json:"address,omitempty"`
}
