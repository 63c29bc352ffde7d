package service

import (
	"context"
	"net/http"
	"net/url"

	"mess-portal/internal/apiclient"
	"mess-portal/internal/model"
)

const defaultMenuItemSort = "name,asc"

type MenuService struct {
	base
}

func NewMenuService(api apiclient.Doer, tokens TokenSource) *MenuService {
	return &MenuService{base{api: api, tokens: tokens}}
}

// WeeklyMenu fetches the week containing q.Date, or the explicit range when
// q.Date is empty.
func (s *MenuService) WeeklyMenu(ctx context.Context, q model.WeeklyMenuQuery) (model.WeeklyMenu, error) {
	query := url.Values{}
	switch {
	case q.Date != "":
		query.Set("date", q.Date)
	case q.StartDate != "" && q.EndDate != "":
		query.Set("startDate", q.StartDate)
		query.Set("endDate", q.EndDate)
	}

	var menu model.WeeklyMenu
	if err := s.get(ctx, "/weekly-menu", "/weekly-menu", query, &menu); err != nil {
		return model.WeeklyMenu{}, err
	}
	return menu, nil
}

func (s *MenuService) SetupWeeklyMenu(ctx context.Context, req model.WeeklyMenuSetupRequest) (string, error) {
	if err := model.Validate(req); err != nil {
		return "", err
	}

	var message string
	if err := s.send(ctx, http.MethodPost, "/weekly-menu", "/weekly-menu", req, &message); err != nil {
		return "", err
	}
	return message, nil
}

func (s *MenuService) ListItems(ctx context.Context, req model.PageRequest) (model.Page[model.MenuItem], error) {
	var page model.Page[model.MenuItem]
	if err := s.get(ctx, "/menu-items", "/menu-items", pageQuery(req, defaultMenuItemSort), &page); err != nil {
		return model.Page[model.MenuItem]{}, err
	}
	return page, nil
}

func (s *MenuService) GetItem(ctx context.Context, id int64) (model.MenuItem, error) {
	var item model.MenuItem
	if err := s.get(ctx, idPath("/menu-items", id), "/menu-items/{id}", nil, &item); err != nil {
		return model.MenuItem{}, err
	}
	return item, nil
}

func (s *MenuService) CreateItem(ctx context.Context, req model.MenuItemRequest) (model.MenuItem, error) {
	if err := model.Validate(req); err != nil {
		return model.MenuItem{}, err
	}

	var item model.MenuItem
	if err := s.send(ctx, http.MethodPost, "/menu-items", "/menu-items", req, &item); err != nil {
		return model.MenuItem{}, err
	}
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, id int64, req model.MenuItemRequest) (model.MenuItem, error) {
	if err := model.Validate(req); err != nil {
		return model.MenuItem{}, err
	}

	var item model.MenuItem
	if err := s.send(ctx, http.MethodPut, idPath("/menu-items", id), "/menu-items/{id}", req, &item); err != nil {
		return model.MenuItem{}, err
	}
	return item, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, id int64) error {
	return s.send(ctx, http.MethodDelete, idPath("/menu-items", id), "/menu-items/{id}", nil, nil)
}
