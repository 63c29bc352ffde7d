package service

import (
	"context"
	"net/url"

	"mess-portal/internal/apiclient"
	"mess-portal/internal/model"
)

type ReportService struct {
	base
}

func NewReportService(api apiclient.Doer, tokens TokenSource) *ReportService {
	return &ReportService{base{api: api, tokens: tokens}}
}

func (s *ReportService) StudentCount(ctx context.Context) (model.StudentCount, error) {
	var count model.StudentCount
	if err := s.get(ctx, "/admin/reports/students/count", "/admin/reports/students/count", nil, &count); err != nil {
		return model.StudentCount{}, err
	}
	return count, nil
}

func (s *ReportService) ActiveSubscriptionCount(ctx context.Context) (model.ActiveSubscriptionCount, error) {
	var count model.ActiveSubscriptionCount
	if err := s.get(ctx, "/admin/reports/subscriptions/active-count", "/admin/reports/subscriptions/active-count", nil, &count); err != nil {
		return model.ActiveSubscriptionCount{}, err
	}
	return count, nil
}

func (s *ReportService) SalesSummary(ctx context.Context, q model.SalesSummaryQuery) (model.SalesSummary, error) {
	if err := model.Validate(q); err != nil {
		return model.SalesSummary{}, err
	}

	query := url.Values{}
	query.Set("startDate", q.StartDate)
	query.Set("endDate", q.EndDate)

	var summary model.SalesSummary
	if err := s.get(ctx, "/admin/reports/sales/summary", "/admin/reports/sales/summary", query, &summary); err != nil {
		return model.SalesSummary{}, err
	}
	return summary, nil
}

// DailyMealEntryCount counts meal entries on date; an empty date means today
// on the server.
func (s *ReportService) DailyMealEntryCount(ctx context.Context, date string) (model.DailyMealEntryCount, error) {
	query := url.Values{}
	if date != "" {
		query.Set("date", date)
	}

	var count model.DailyMealEntryCount
	if err := s.get(ctx, "/admin/reports/meal-entries/daily-count", "/admin/reports/meal-entries/daily-count", query, &count); err != nil {
		return model.DailyMealEntryCount{}, err
	}
	return count, nil
}
