package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"jobboard/internal/entity"
	"jobboard/internal/service"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeServiceError maps service errors onto HTTP statuses. Validation
// failures are the caller's fault; everything else is reported generically and
// logged with detail server-side.
func writeServiceError(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: validationErr.Error()})
		return
	}
	logger.WithError(err).Error("request failed")
	writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "internal server error"})
}

func participantFromQuery(r *http.Request, typeParam, idParam string) entity.Participant {
	q := r.URL.Query()
	return entity.Participant{Type: q.Get(typeParam), ID: q.Get(idParam)}
}
