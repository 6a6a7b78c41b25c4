package handler

import (
	"net/http"

	"jobboard/internal/data"
)

type HealthHandler struct {
	storage *data.Storage
}

func NewHealthHandler(storage *data.Storage) *HealthHandler {
	return &HealthHandler{storage: storage}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.Ping(); err != nil {
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "database unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "ok"})
}
