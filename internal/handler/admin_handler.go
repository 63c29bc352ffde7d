package handler

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"mess-portal/internal/crud"
	"mess-portal/internal/model"
	"mess-portal/internal/notify"
	"mess-portal/internal/service"
	"mess-portal/pkg/apierror"
)

type AdminHandler struct {
	menus    *service.MenuService
	reports  *service.ReportService
	notifier notify.Notifier
	now      func() time.Time

	Users     *TableHandler[model.User, model.AdminCreateUserRequest, model.AdminUpdateUserRequest]
	MenuItems *TableHandler[model.MenuItem, model.MenuItemRequest, model.MenuItemRequest]
}

func NewAdminHandler(
	users *service.UserService,
	menus *service.MenuService,
	reports *service.ReportService,
	notifier notify.Notifier,
	pageSize int,
) *AdminHandler {
	userTable := crud.New(crud.Options[model.User, model.AdminCreateUserRequest, model.AdminUpdateUserRequest]{
		Resource: "User",
		PageSize: pageSize,
		Identify: model.User.ID,
		Fetch:    users.List,
		Create:   users.Create,
		Update:   users.Update,
		Delete:   users.Delete,
		Notifier: notifier,
	})
	menuTable := crud.New(crud.Options[model.MenuItem, model.MenuItemRequest, model.MenuItemRequest]{
		Resource: "Menu item",
		PageSize: pageSize,
		Identify: model.MenuItem.ID,
		Fetch:    menus.ListItems,
		Create:   menus.CreateItem,
		Update:   menus.UpdateItem,
		Delete:   menus.DeleteItem,
		Notifier: notifier,
	})

	return &AdminHandler{
		menus:     menus,
		reports:   reports,
		notifier:  notifier,
		now:       time.Now,
		Users:     NewTableHandler(userTable, users.Get),
		MenuItems: NewTableHandler(menuTable, menus.GetItem),
	}
}

// Reset clears the tables when the session changes hands.
func (h *AdminHandler) Reset() {
	h.Users.Reset()
	h.MenuItems.Reset()
}

func (h *AdminHandler) WeeklyMenu(w http.ResponseWriter, r *http.Request) {
	query := model.WeeklyMenuQuery{
		Date:      r.URL.Query().Get("date"),
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	}
	if query.Date == "" && (query.StartDate == "" || query.EndDate == "") {
		query.Date = h.now().Format(time.DateOnly)
	}

	menu, err := h.menus.WeeklyMenu(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, menu, nil)
}

func (h *AdminHandler) SetupWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	var payload model.WeeklyMenuSetupRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	message, err := h.menus.SetupWeeklyMenu(r.Context(), payload)
	if err != nil {
		h.notifier.Push(notify.Notification{
			Level:   notify.LevelError,
			Source:  "weekly-menu",
			Message: "Error saving menu: " + apierror.MessageOf(err, "could not reach the mess service"),
		})
		writeError(w, err)
		return
	}

	h.notifier.Push(notify.Notification{Level: notify.LevelSuccess, Source: "weekly-menu", Message: "Menu updated successfully!"})
	writeSuccess(w, http.StatusOK, map[string]string{"message": message}, nil)
}

type reportsView struct {
	Students            model.StudentCount            `json:"students"`
	ActiveSubscriptions model.ActiveSubscriptionCount `json:"activeSubscriptions"`
	Sales               model.SalesSummary            `json:"sales"`
	DailyMealEntries    model.DailyMealEntryCount     `json:"dailyMealEntries"`
}

// Reports loads the counters and the sales summary. Without a range the
// summary covers the current month to date.
func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	today := h.now()
	sales := model.SalesSummaryQuery{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	}
	if sales.StartDate == "" {
		sales.StartDate = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).Format(time.DateOnly)
	}
	if sales.EndDate == "" {
		sales.EndDate = today.Format(time.DateOnly)
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = today.Format(time.DateOnly)
	}

	var view reportsView
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		view.Students, err = h.reports.StudentCount(ctx)
		return err
	})
	g.Go(func() (err error) {
		view.ActiveSubscriptions, err = h.reports.ActiveSubscriptionCount(ctx)
		return err
	})
	g.Go(func() (err error) {
		view.Sales, err = h.reports.SalesSummary(ctx, sales)
		return err
	})
	g.Go(func() (err error) {
		view.DailyMealEntries, err = h.reports.DailyMealEntryCount(ctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view, nil)
}
