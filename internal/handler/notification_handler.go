package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"jobboard/internal/entity"
	"jobboard/internal/middleware"
	"jobboard/internal/realtime"
	"jobboard/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
	hub           *realtime.Hub
	validate      *validator.Validate
	logger        logrus.FieldLogger
}

func NewNotificationHandler(notifications service.NotificationService, hub *realtime.Hub, logger logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		hub:           hub,
		validate:      validator.New(),
		logger:        logger,
	}
}

type createNotificationRequest struct {
	ReceiverType string `json:"receiverType" validate:"required,oneof=user company"`
	ReceiverID   string `json:"receiverId" validate:"required"`
	Message      string `json:"message" validate:"required"`
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	sender, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}

	var req createNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: err.Error()})
		return
	}

	receiver := entity.Participant{Type: req.ReceiverType, ID: req.ReceiverID}
	notification, err := h.notifications.Create(receiver, sender, req.Message)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.EmitToRoom(receiver.Room(), realtime.EventNotificationReceived, notification)
	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: notification})
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	receiver, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	notifications, err := h.notifications.List(receiver, limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{
		"notifications": notifications,
		"unreadCount":   h.notifications.UnreadCount(receiver),
	}})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "notification id is required"})
		return
	}

	updated, err := h.notifications.MarkAsRead(id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{"updated": updated}})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	receiver, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}

	updated, err := h.notifications.MarkAllAsRead(receiver)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{"updated": updated}})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	receiver, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{
		"unreadCount": h.notifications.UnreadCount(receiver),
	}})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "notification id is required"})
		return
	}

	deleted, err := h.notifications.Delete(id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{"deleted": deleted}})
}

func (h *NotificationHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	receiver, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}

	deleted, err := h.notifications.DeleteAll(receiver)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{"deleted": deleted}})
}

func (h *NotificationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: h.notifications.Stats()})
}
