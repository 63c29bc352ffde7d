package handler

import (
	"net/http"

	"mess-portal/internal/notify"
)

type NotificationHandler struct {
	queue *notify.Queue
}

func NewNotificationHandler(queue *notify.Queue) *NotificationHandler {
	return &NotificationHandler{queue: queue}
}

// List drains the pending notifications; the browser polls this.
func (h *NotificationHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, h.queue.Drain(), nil)
}
