package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mess-portal/internal/config"
	"mess-portal/internal/guard"
	"mess-portal/internal/handler"
	"mess-portal/internal/middleware"
	"mess-portal/internal/model"
	"mess-portal/internal/notify"
	"mess-portal/internal/session"
	"mess-portal/internal/websocket"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Profile       *handler.ProfileHandler
	Student       *handler.StudentHandler
	Admin         *handler.AdminHandler
	Notifications *handler.NotificationHandler
	Stream        *websocket.Hub
}

func New(
	cfg *config.Config,
	store *session.Store,
	queue *notify.Queue,
	gatherer prometheus.Gatherer,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.SessionProvider(store))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Long-lived; must stay outside the timeout group.
	r.Get("/notifications/ws", h.Stream.ServeWS)

	authenticated := middleware.Guard(guard.Authenticated{}, queue)
	studentOnly := middleware.Guard(guard.RequireRoles(model.RoleStudent), queue)
	adminOnly := middleware.Guard(guard.RequireRoles(model.RoleAdmin), queue)

	r.Group(func(views chi.Router) {
		views.Use(middleware.Timeout(cfg.RequestTimeout))

		views.Get("/", h.Auth.Home)
		views.Get("/session", h.Auth.Session)
		views.Get("/login", h.Auth.LoginForm)
		views.Post("/login", h.Auth.Login)
		views.Post("/register", h.Auth.Register)
		views.Post("/logout", h.Auth.Logout)
		views.Get("/notifications", h.Notifications.List)

		views.With(authenticated).Get("/my-profile", h.Profile.Get)
		views.With(authenticated).Put("/my-profile", h.Profile.Update)

		views.Route("/student", func(student chi.Router) {
			student.Use(studentOnly)

			student.Get("/dashboard", h.Student.Dashboard)
			student.Get("/meal-entries", h.Student.MealHistory.List)
			student.Post("/meal-entries", h.Student.MarkMeal)
			student.Get("/purchases", h.Student.PurchaseHistory.List)
			student.Post("/purchases", h.Student.Purchase)
			student.Get("/subscription", h.Student.Subscription)
			student.Post("/subscription/purchase", h.Student.PurchaseSubscription)
		})

		views.Route("/admin", func(admin chi.Router) {
			admin.Use(adminOnly)

			admin.Get("/dashboard", h.Admin.Reports)
			admin.Get("/reports", h.Admin.Reports)
			admin.Get("/weekly-menu", h.Admin.WeeklyMenu)
			admin.Post("/weekly-menu", h.Admin.SetupWeeklyMenu)

			admin.Get("/users", h.Admin.Users.List)
			admin.Post("/users/form", h.Admin.Users.OpenCreate)
			admin.Post("/users/{id}/form", h.Admin.Users.OpenEdit)
			admin.Delete("/users/form", h.Admin.Users.CloseForm)
			admin.Post("/users/submit", h.Admin.Users.Submit)
			admin.Delete("/users/{id}", h.Admin.Users.Delete)

			admin.Get("/menu-items", h.Admin.MenuItems.List)
			admin.Post("/menu-items/form", h.Admin.MenuItems.OpenCreate)
			admin.Post("/menu-items/{id}/form", h.Admin.MenuItems.OpenEdit)
			admin.Delete("/menu-items/form", h.Admin.MenuItems.CloseForm)
			admin.Post("/menu-items/submit", h.Admin.MenuItems.Submit)
			admin.Delete("/menu-items/{id}", h.Admin.MenuItems.Delete)
		})
	})

	return r
}
