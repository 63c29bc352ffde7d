package model

type MealEntryRequest struct {
	MessProvidedUserID string   `json:"messProvidedUserId" validate:"required"`
	MealType           MealType `json:"mealType" validate:"required,oneof=BREAKFAST LUNCH DINNER"`
}

type MealEntry struct {
	EntryID             int64    `json:"entryId"`
	UserID              int64    `json:"userId"`
	UserEmail           string   `json:"userEmail"`
	UserName            string   `json:"userName"`
	MealType            MealType `json:"mealType"`
	EntryDate           string   `json:"entryDate"`
	EntryTime           string   `json:"entryTime"`
	VerifiedByAdminID   int64    `json:"verifiedByAdminId,omitempty"`
	VerifiedByAdminName string   `json:"verifiedByAdminName,omitempty"`
}

func (e MealEntry) ID() int64 {
	return e.EntryID
}
