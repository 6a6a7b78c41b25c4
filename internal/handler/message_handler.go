package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"jobboard/internal/entity"
	"jobboard/internal/middleware"
	"jobboard/internal/realtime"
	"jobboard/internal/service"
)

// MessageHandler exposes the conversation APIs. The sending side of every
// operation comes from the session; only the other party travels in the
// request.
type MessageHandler struct {
	messages service.MessageService
	hub      *realtime.Hub
	validate *validator.Validate
	logger   logrus.FieldLogger
}

func NewMessageHandler(messages service.MessageService, hub *realtime.Hub, logger logrus.FieldLogger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		hub:      hub,
		validate: validator.New(),
		logger:   logger,
	}
}

type sendMessageRequest struct {
	ReceiverType string `json:"receiverType" validate:"required,oneof=user company"`
	ReceiverID   string `json:"receiverId" validate:"required"`
	Text         string `json:"text" validate:"required"`
}

type markReadRequest struct {
	OtherType string `json:"otherType" validate:"required,oneof=user company"`
	OtherID   string `json:"otherId" validate:"required"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	sender, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: err.Error()})
		return
	}

	receiver := entity.Participant{Type: req.ReceiverType, ID: req.ReceiverID}
	message, err := h.messages.Send(sender, receiver, req.Text)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.hub.EmitToRoom(receiver.Room(), realtime.EventMessageReceived, message)
	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: message})
}

func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}
	other := participantFromQuery(r, "otherType", "otherId")
	if other.Validate() != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "otherType and otherId are required"})
		return
	}

	messages, err := h.messages.GetMessages(owner, other)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if r.URL.Query().Get("markAsRead") == "true" {
		if _, err := h.messages.MarkAsRead(owner, other); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
	}

	var latest *entity.Message
	if len(messages) > 0 {
		latest = messages[len(messages)-1]
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{
		"messages":      messages,
		"latestMessage": latest,
		"unreadCount":   h.messages.UnreadCount(owner, other),
	}})
}

func (h *MessageHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}

	conversations, err := h.messages.GetConversations(owner)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: conversations})
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: err.Error()})
		return
	}

	updated, err := h.messages.MarkAsRead(owner, entity.Participant{Type: req.OtherType, ID: req.OtherID})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{"updated": updated}})
}

func (h *MessageHandler) TotalUnreadCount(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{
		"unreadCount": h.messages.TotalUnreadCount(owner),
	}})
}

func (h *MessageHandler) ConversationUnreadCount(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.ParticipantFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "unauthorized"})
		return
	}
	other := participantFromQuery(r, "otherType", "otherId")
	if other.Validate() != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "otherType and otherId are required"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]interface{}{
		"unreadCount": h.messages.UnreadCount(owner, other),
	}})
}

func (h *MessageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: h.messages.Stats()})
}

func (h *MessageHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.messages.Clear(); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "all messages cleared"})
}
