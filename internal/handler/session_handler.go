package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"jobboard/internal/middleware"
)

// SessionHandler binds a participant identity to a cookie session. Credential
// checks happen upstream of this subsystem; callers arrive here already
// authenticated.
type SessionHandler struct {
	store    *sessions.CookieStore
	validate *validator.Validate
	logger   logrus.FieldLogger
}

func NewSessionHandler(store *sessions.CookieStore, logger logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

type sessionRequest struct {
	ParticipantType string `json:"participantType" validate:"required,oneof=user company"`
	ParticipantID   string `json:"participantId" validate:"required"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: err.Error()})
		return
	}

	// A stale or garbage cookie still yields a fresh session alongside the
	// decode error, so it never blocks establishing a new identity.
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		h.logger.WithError(err).Debug("discarding undecodable session cookie")
	}
	session.Values[middleware.SessionParticipantType] = req.ParticipantType
	session.Values[middleware.SessionParticipantID] = req.ParticipantID
	if err := session.Save(r, w); err != nil {
		h.logger.WithError(err).Error("could not save session")
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Message: "session created"})
}

func (h *SessionHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		h.logger.WithError(err).Debug("discarding undecodable session cookie")
	}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		h.logger.WithError(err).Error("could not destroy session")
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "session destroyed"})
}
