package handler

import (
	"log/slog"
	"net/http"

	"mess-portal/internal/guard"
	"mess-portal/internal/model"
	"mess-portal/internal/notify"
	"mess-portal/internal/service"
	"mess-portal/internal/session"
)

type AuthHandler struct {
	auth     *service.AuthService
	users    *service.UserService
	notifier notify.Notifier
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService, notifier notify.Notifier) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, notifier: notifier}
}

type loginForm struct {
	model.LoginRequest
	// From is the location the login guard redirected away from.
	From string `json:"from,omitempty"`
}

type sessionView struct {
	Session    session.Snapshot `json:"session"`
	RedirectTo string           `json:"redirectTo,omitempty"`
}

type loginPage struct {
	Session session.Snapshot `json:"session"`
	// From is echoed back in the login form so the login returns there.
	From       string `json:"from,omitempty"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// LoginForm is the page the login guard redirects to. A signed-in user is
// sent on to the origin right away.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	snap := session.MustFromContext(r.Context()).Snapshot()
	from := safeRedirect(r.URL.Query().Get("from"), "")

	page := loginPage{Session: snap, From: from}
	if snap.IsAuthenticated {
		page.RedirectTo = safeRedirect(from, guard.HomePath)
	}

	writeSuccess(w, http.StatusOK, page, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), form.LoginRequest)
	if err != nil {
		writeError(w, err)
		return
	}

	store := session.MustFromContext(r.Context())
	if err := store.Login(resp); err != nil {
		writeError(w, err)
		return
	}

	// The login payload lacks most profile fields; fill them in when the
	// profile endpoint answers.
	if user, err := h.users.Me(r.Context()); err == nil {
		store.SetProfile(user)
	} else {
		slog.Debug("profile not loaded after login", "error", err)
	}

	h.notifier.Push(notify.Notification{Level: notify.LevelSuccess, Source: "login", Message: "Login successful!"})

	writeSuccess(w, http.StatusOK, sessionView{
		Session:    store.Snapshot(),
		RedirectTo: safeRedirect(form.From, guard.HomePath),
	}, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.notifier.Push(notify.Notification{
		Level:   notify.LevelSuccess,
		Source:  "register",
		Message: "Registration successful for " + user.Name + "! Please login.",
	})

	writeSuccess(w, http.StatusCreated, sessionView{
		Session:    session.MustFromContext(r.Context()).Snapshot(),
		RedirectTo: guard.LoginPath,
	}, nil)
}

// Logout always ends the local session, even when the server call fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	store := session.MustFromContext(r.Context())
	if err := store.Logout(r.Context()); err != nil {
		slog.Warn("server-side logout failed; local session cleared", "error", err)
	}

	h.notifier.Push(notify.Notification{Level: notify.LevelInfo, Source: "logout", Message: "You have been logged out."})

	writeSuccess(w, http.StatusOK, sessionView{
		Session:    store.Snapshot(),
		RedirectTo: guard.LoginPath,
	}, nil)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, session.MustFromContext(r.Context()).Snapshot(), nil)
}

// Home returns the session and the dashboard for the signed-in role.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	snap := session.MustFromContext(r.Context()).Snapshot()

	view := sessionView{Session: snap}
	switch snap.Role() {
	case model.RoleStudent:
		view.RedirectTo = "/student/dashboard"
	case model.RoleAdmin:
		view.RedirectTo = "/admin/dashboard"
	}

	writeSuccess(w, http.StatusOK, view, nil)
}
