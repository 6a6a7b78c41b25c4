package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"jobboard/internal/entity"
	"jobboard/internal/realtime"
	"jobboard/internal/service"
)

func newNotificationHandler(t *testing.T) (*NotificationHandler, service.NotificationService) {
	t.Helper()
	logger := newTestLogger()
	notifications := service.NewNotificationService(newTestStorage(t), logger)
	return NewNotificationHandler(notifications, realtime.NewHub(logger), logger), notifications
}

func TestNotificationCreate(t *testing.T) {
	h, svc := newNotificationHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/api/notifications/create",
		strings.NewReader(`{"receiverType":"user","receiverId":"1","message":"Interview scheduled"}`))
	r = authenticated(r, entity.Participant{Type: "company", ID: "5"})
	w := httptest.NewRecorder()

	h.Create(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if got := svc.UnreadCount(entity.Participant{Type: "user", ID: "1"}); got != 1 {
		t.Errorf("receiver unread = %d, want 1", got)
	}
}

func TestNotificationCreateRejectsBadInput(t *testing.T) {
	h, _ := newNotificationHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/api/notifications/create",
		strings.NewReader(`{"receiverType":"user","receiverId":"1"}`))
	r = authenticated(r, entity.Participant{Type: "company", ID: "5"})
	w := httptest.NewRecorder()

	h.Create(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestNotificationList(t *testing.T) {
	h, svc := newNotificationHandler(t)
	alice := entity.Participant{Type: "user", ID: "1"}
	acme := entity.Participant{Type: "company", ID: "5"}

	if _, err := svc.Create(alice, acme, "one"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(alice, acme, "two"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/notifications/list?limit=10", nil)
	r = authenticated(r, alice)
	w := httptest.NewRecorder()
	h.List(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeResponse(t, w)
	data := body.Data.(map[string]interface{})
	notifications, ok := data["notifications"].([]interface{})
	if !ok || len(notifications) != 2 {
		t.Fatalf("notifications = %#v, want 2 entries", data["notifications"])
	}
	if data["unreadCount"] != float64(2) {
		t.Errorf("unreadCount = %v, want 2", data["unreadCount"])
	}
}

func TestNotificationMarkReadByID(t *testing.T) {
	h, svc := newNotificationHandler(t)
	alice := entity.Participant{Type: "user", ID: "1"}
	acme := entity.Participant{Type: "company", ID: "5"}

	n, err := svc.Create(alice, acme, "pending")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/notifications/mark-read/{id}", h.MarkRead).Methods(http.MethodPut)

	r := httptest.NewRequest(http.MethodPut, "/api/notifications/mark-read/"+n.ID, nil)
	r = authenticated(r, alice)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	body := decodeResponse(t, w)
	if body.Data.(map[string]interface{})["updated"] != true {
		t.Errorf("updated = %v, want true", body.Data)
	}
	if got := svc.UnreadCount(alice); got != 0 {
		t.Errorf("unread = %d, want 0", got)
	}
}

func TestNotificationDeleteAll(t *testing.T) {
	h, svc := newNotificationHandler(t)
	alice := entity.Participant{Type: "user", ID: "1"}
	acme := entity.Participant{Type: "company", ID: "5"}

	if _, err := svc.Create(alice, acme, "one"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(alice, acme, "two"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodDelete, "/api/notifications/delete-all", nil)
	r = authenticated(r, alice)
	w := httptest.NewRecorder()
	h.DeleteAll(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeResponse(t, w)
	if body.Data.(map[string]interface{})["deleted"] != float64(2) {
		t.Errorf("deleted = %v, want 2", body.Data)
	}
	if got := svc.UnreadCount(alice); got != 0 {
		t.Errorf("unread = %d, want 0", got)
	}
}
