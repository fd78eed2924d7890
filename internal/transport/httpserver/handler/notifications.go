package handler

import (
	"net/http"
	"time"

	notificationdomain "dna-clinic-go/internal/domain/notification"
)

type notificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type notificationRequest struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Notifications.List(r.Context())
	if err != nil {
		h.fail(w, "notifications.list", err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponses(notifications))
}

func (h *Handlers) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	notifications, err := h.Notifications.ListByUser(r.Context(), principal.UserID)
	if err != nil {
		h.fail(w, "notifications.mine", err, "user_id", principal.UserID)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponses(notifications))
}

func (h *Handlers) GetNotification(w http.ResponseWriter, r *http.Request) {
	notification, ok := h.ownNotification(w, r, "notifications.get")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponse(*notification))
}

func (h *Handlers) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if !h.decode(w, r, &req) {
		return
	}
	notification, err := h.Notifications.Create(r.Context(), notificationdomain.Input{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		h.fail(w, "notifications.create", err, "user_id", req.UserID)
		return
	}
	writeMessage(w, http.StatusCreated, "Tạo thông báo thành công", toNotificationResponse(*notification))
}

func (h *Handlers) UpdateNotification(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req notificationRequest
	if !h.decode(w, r, &req) {
		return
	}
	notification, err := h.Notifications.Update(r.Context(), id, notificationdomain.Input{Title: req.Title, Message: req.Message})
	if err != nil {
		h.fail(w, "notifications.update", err, "notification_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật thông báo thành công", toNotificationResponse(*notification))
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	notification, ok := h.ownNotification(w, r, "notifications.mark_read")
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(r.Context(), notification.ID); err != nil {
		h.fail(w, "notifications.mark_read", err, "notification_id", notification.ID)
		return
	}
	notification.IsRead = true
	writeMessage(w, http.StatusOK, "Đã đánh dấu đã đọc", toNotificationResponse(*notification))
}

func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	count, err := h.Notifications.MarkAllRead(r.Context(), principal.UserID)
	if err != nil {
		h.fail(w, "notifications.mark_all_read", err, "user_id", principal.UserID)
		return
	}
	writeMessage(w, http.StatusOK, "Đã đánh dấu tất cả thông báo là đã đọc", map[string]int64{"updated": count})
}

func (h *Handlers) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	notification, ok := h.ownNotification(w, r, "notifications.delete")
	if !ok {
		return
	}
	if err := h.Notifications.Delete(r.Context(), notification.ID); err != nil {
		h.fail(w, "notifications.delete", err, "notification_id", notification.ID)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa thông báo thành công", nil)
}

func (h *Handlers) ownNotification(w http.ResponseWriter, r *http.Request, op string) (*notificationdomain.Notification, bool) {
	id := idParam(r)
	notification, err := h.Notifications.Get(r.Context(), id)
	if err != nil {
		h.fail(w, op, err, "notification_id", id)
		return nil, false
	}
	if !h.ownerOrStaff(w, r, notification.UserID) {
		return nil, false
	}
	return notification, true
}

func toNotificationResponses(notifications []notificationdomain.Notification) []notificationResponse {
	response := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		response = append(response, toNotificationResponse(notification))
	}
	return response
}

func toNotificationResponse(notification notificationdomain.Notification) notificationResponse {
	return notificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Title:     notification.Title,
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}
