package service

import (
	"context"
	"net/http"

	"mess-portal/internal/apiclient"
	"mess-portal/internal/model"
)

type AuthService struct {
	api apiclient.Doer
}

func NewAuthService(api apiclient.Doer) *AuthService {
	return &AuthService{api: api}
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	if err := model.Validate(req); err != nil {
		return model.LoginResponse{}, err
	}

	var resp model.LoginResponse
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   req,
	}, &resp)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return resp, nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	if err := model.Validate(req); err != nil {
		return model.User{}, err
	}

	var user model.User
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   req,
	}, &user)
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

// Logout asks the server to revoke the refresh credential held in the cookie
// jar. The token is passed in because the session calls this while clearing
// itself.
func (s *AuthService) Logout(ctx context.Context, token string) (string, error) {
	var message string
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Token:  token,
	}, &message)
	if err != nil {
		return "", err
	}

	return message, nil
}
