package service

import (
	"context"
	"net/http"

	"mess-portal/internal/apiclient"
	"mess-portal/internal/model"
)

const defaultUserSort = "name,asc"

type UserService struct {
	base
}

func NewUserService(api apiclient.Doer, tokens TokenSource) *UserService {
	return &UserService{base{api: api, tokens: tokens}}
}

func (s *UserService) List(ctx context.Context, req model.PageRequest) (model.Page[model.User], error) {
	var page model.Page[model.User]
	if err := s.get(ctx, "/users", "/users", pageQuery(req, defaultUserSort), &page); err != nil {
		return model.Page[model.User]{}, err
	}
	return page, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	if err := s.get(ctx, idPath("/users", id), "/users/{id}", nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req model.AdminCreateUserRequest) (model.User, error) {
	if err := model.Validate(req); err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := s.send(ctx, http.MethodPost, "/users", "/users", req, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, req model.AdminUpdateUserRequest) (model.User, error) {
	if err := model.Validate(req); err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := s.send(ctx, http.MethodPut, idPath("/users", id), "/users/{id}", req, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.send(ctx, http.MethodDelete, idPath("/users", id), "/users/{id}", nil, nil)
}

// Me fetches the full profile of the signed-in user.
func (s *UserService) Me(ctx context.Context) (model.User, error) {
	var user model.User
	if err := s.get(ctx, "/users/me", "/users/me", nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *UserService) UpdateMe(ctx context.Context, req model.UserUpdateRequest) (model.User, error) {
	if err := model.Validate(req); err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := s.send(ctx, http.MethodPut, "/users/me", "/users/me", req, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}
