package model

type MenuCategory string

const (
	CategoryBreakfast MenuCategory = "BREAKFAST"
	CategoryLunch     MenuCategory = "LUNCH"
	CategoryDinner    MenuCategory = "DINNER"
	CategorySpecial   MenuCategory = "SPECIAL"
)

type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealDinner    MealType = "DINNER"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

type MenuItem struct {
	ItemID      int64        `json:"itemId"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       float64      `json:"price"`
	Category    MenuCategory `json:"category"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	IsAvailable bool         `json:"isAvailable"`
	CreatedAt   string       `json:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
}

func (m MenuItem) ID() int64 {
	return m.ItemID
}

// MenuItemRequest is used for both create and update of a menu item.
type MenuItemRequest struct {
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description,omitempty"`
	Price       float64      `json:"price" validate:"gt=0"`
	Category    MenuCategory `json:"category" validate:"required,oneof=BREAKFAST LUNCH DINNER SPECIAL"`
	ImageURL    string       `json:"imageUrl,omitempty" validate:"omitempty,url"`
	IsAvailable bool         `json:"isAvailable"`
}

type WeeklyMenuDayMeal struct {
	Items []MenuItem `json:"items"`
}

type WeeklyMenu struct {
	DailyMenus map[DayOfWeek]map[MealType]WeeklyMenuDayMeal `json:"dailyMenus"`
	StartDate  string                                       `json:"startDate"`
	EndDate    string                                       `json:"endDate"`
}

// WeeklyMenuQuery selects either the week containing Date or an explicit range.
type WeeklyMenuQuery struct {
	Date      string
	StartDate string
	EndDate   string
}

type WeeklyMenuEntry struct {
	ItemID             int64     `json:"itemId" validate:"required,gt=0"`
	DayOfWeek          DayOfWeek `json:"dayOfWeek" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	MealType           MealType  `json:"mealType" validate:"required,oneof=BREAKFAST LUNCH DINNER"`
	EffectiveDateStart string    `json:"effectiveDateStart" validate:"required,datetime=2006-01-02"`
	EffectiveDateEnd   string    `json:"effectiveDateEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type WeeklyMenuSetupRequest struct {
	MenuEntries []WeeklyMenuEntry `json:"menuEntries" validate:"required,min=1,dive"`
}
