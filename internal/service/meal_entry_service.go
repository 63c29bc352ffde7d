package service

import (
	"context"
	"net/http"

	"mess-portal/internal/apiclient"
	"mess-portal/internal/model"
)

type MealEntryService struct {
	base
}

func NewMealEntryService(api apiclient.Doer, tokens TokenSource) *MealEntryService {
	return &MealEntryService{base{api: api, tokens: tokens}}
}

func (s *MealEntryService) Mark(ctx context.Context, req model.MealEntryRequest) (model.MealEntry, error) {
	if err := model.Validate(req); err != nil {
		return model.MealEntry{}, err
	}

	var entry model.MealEntry
	if err := s.send(ctx, http.MethodPost, "/meal-entries/mark", "/meal-entries/mark", req, &entry); err != nil {
		return model.MealEntry{}, err
	}
	return entry, nil
}

func (s *MealEntryService) MyHistory(ctx context.Context, req model.PageRequest) (model.Page[model.MealEntry], error) {
	var page model.Page[model.MealEntry]
	if err := s.get(ctx, "/meal-entries/my-history", "/meal-entries/my-history", pageQuery(req, ""), &page); err != nil {
		return model.Page[model.MealEntry]{}, err
	}
	return page, nil
}
