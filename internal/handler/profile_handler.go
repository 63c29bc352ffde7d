package handler

import (
	"net/http"

	"mess-portal/internal/model"
	"mess-portal/internal/notify"
	"mess-portal/internal/service"
	"mess-portal/internal/session"
)

type ProfileHandler struct {
	users    *service.UserService
	notifier notify.Notifier
}

func NewProfileHandler(users *service.UserService, notifier notify.Notifier) *ProfileHandler {
	return &ProfileHandler{users: users, notifier: notifier}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	session.MustFromContext(r.Context()).SetProfile(user)
	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UserUpdateRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.UpdateMe(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	session.MustFromContext(r.Context()).SetProfile(user)
	h.notifier.Push(notify.Notification{Level: notify.LevelSuccess, Source: "profile", Message: "Profile updated successfully!"})
	writeSuccess(w, http.StatusOK, user, nil)
}
