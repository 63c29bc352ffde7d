package model

type StudentCount struct {
	TotalStudents int64 `json:"totalStudents"`
}

type ActiveSubscriptionCount struct {
	ActiveSubscriptions int64 `json:"activeSubscriptions"`
}

type SalesSummary struct {
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	TotalSales float64 `json:"totalSales"`
}

type DailyMealEntryCount struct {
	Date             string `json:"date"`
	MealEntriesCount int64  `json:"mealEntriesCount"`
}

type SalesSummaryQuery struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}
