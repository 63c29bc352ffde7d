package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"mess-portal/internal/crud"
	"mess-portal/internal/model"
	"mess-portal/internal/notify"
	"mess-portal/internal/service"
	"mess-portal/pkg/apierror"
)

const (
	noSubscriptionMessage  = "You have no active subscription."
	paymentsMissingMessage = "Stripe is not configured correctly. Publishable key or Price ID is missing."
)

type StudentHandler struct {
	menus         *service.MenuService
	meals         *service.MealEntryService
	purchases     *service.PurchaseService
	subscriptions *service.SubscriptionService
	notifier      notify.Notifier
	now           func() time.Time

	MealHistory     *TableHandler[model.MealEntry, crud.None, crud.None]
	PurchaseHistory *TableHandler[model.Purchase, crud.None, crud.None]
}

func NewStudentHandler(
	menus *service.MenuService,
	meals *service.MealEntryService,
	purchases *service.PurchaseService,
	subscriptions *service.SubscriptionService,
	notifier notify.Notifier,
	pageSize int,
) *StudentHandler {
	mealTable := crud.New(crud.Options[model.MealEntry, crud.None, crud.None]{
		Resource: "Meal entry",
		PageSize: pageSize,
		Identify: model.MealEntry.ID,
		Fetch:    meals.MyHistory,
		Notifier: notifier,
	})
	purchaseTable := crud.New(crud.Options[model.Purchase, crud.None, crud.None]{
		Resource: "Purchase",
		PageSize: pageSize,
		Identify: model.Purchase.ID,
		Fetch:    purchases.MyHistory,
		Notifier: notifier,
	})

	return &StudentHandler{
		menus:           menus,
		meals:           meals,
		purchases:       purchases,
		subscriptions:   subscriptions,
		notifier:        notifier,
		now:             time.Now,
		MealHistory:     NewTableHandler(mealTable, nil),
		PurchaseHistory: NewTableHandler(purchaseTable, nil),
	}
}

func (h *StudentHandler) Reset() {
	h.MealHistory.Reset()
	h.PurchaseHistory.Reset()
}

type subscriptionPanel struct {
	Status             *model.MySubscriptionStatus `json:"status"`
	Active             bool                        `json:"active"`
	Message            string                      `json:"message,omitempty"`
	PaymentsConfigured bool                        `json:"paymentsConfigured"`
}

type studentDashboard struct {
	WeeklyMenu   model.WeeklyMenu  `json:"weeklyMenu"`
	Subscription subscriptionPanel `json:"subscription"`
}

// Dashboard loads the week's menu and the subscription panel together.
func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.now().Format(time.DateOnly)
	}

	var view studentDashboard
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		menu, err := h.menus.WeeklyMenu(ctx, model.WeeklyMenuQuery{Date: date})
		view.WeeklyMenu = menu
		return err
	})
	g.Go(func() error {
		panel, err := h.subscriptionPanel(ctx)
		view.Subscription = panel
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view, nil)
}

func (h *StudentHandler) Subscription(w http.ResponseWriter, r *http.Request) {
	panel, err := h.subscriptionPanel(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, panel, nil)
}

func (h *StudentHandler) PurchaseSubscription(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.subscriptions.Checkout(r.Context())
	if err != nil {
		h.notifyFailure("subscription", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, checkout, nil)
}

type markMealResult struct {
	Message string                 `json:"message"`
	Entry   model.MealEntry        `json:"entry"`
	Form    model.MealEntryRequest `json:"form"`
}

// MarkMeal records a meal and hands back an empty form.
func (h *StudentHandler) MarkMeal(w http.ResponseWriter, r *http.Request) {
	var payload model.MealEntryRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.meals.Mark(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	message := fmt.Sprintf("Successfully marked %s for %s at %s.", entry.MealType, entry.EntryDate, entry.EntryTime)
	h.notifier.Push(notify.Notification{Level: notify.LevelSuccess, Source: "meal-entry", Message: message})

	writeSuccess(w, http.StatusCreated, markMealResult{
		Message: message,
		Entry:   entry,
		Form:    model.MealEntryRequest{},
	}, nil)
}

func (h *StudentHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var payload model.DishPurchaseRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	checkout, err := h.purchases.Checkout(r.Context(), payload)
	if err != nil {
		h.notifyFailure("purchase", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, checkout, nil)
}

func (h *StudentHandler) subscriptionPanel(ctx context.Context) (subscriptionPanel, error) {
	status, err := h.subscriptions.MyStatus(ctx)
	if err != nil {
		return subscriptionPanel{}, err
	}

	panel := subscriptionPanel{
		Status:             status,
		Active:             status.IsActive(),
		PaymentsConfigured: h.subscriptions.PaymentsConfigured(),
	}
	if status == nil || status.Status == model.SubscriptionNoHistory {
		panel.Message = noSubscriptionMessage
	}
	return panel, nil
}

func (h *StudentHandler) notifyFailure(source string, err error) {
	message := apierror.MessageOf(err, "Failed to initiate payment.")
	if errors.Is(err, service.ErrPaymentNotConfigured) {
		message = paymentsMissingMessage
	}
	h.notifier.Push(notify.Notification{Level: notify.LevelError, Source: source, Message: message})
}
