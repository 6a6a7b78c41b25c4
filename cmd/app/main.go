package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jobboard/internal/config"
	"jobboard/internal/data"
	"jobboard/internal/handler"
	"jobboard/internal/middleware"
	"jobboard/internal/realtime"
	"jobboard/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("could not load configuration")
	}

	logger := newLogger(cfg)

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseFile), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("could not open database")
	}
	if err := data.AutoMigrate(db); err != nil {
		logger.WithError(err).Fatal("could not migrate database")
	}
	storage := data.NewStorage(db)

	messages := service.NewMessageService(storage, logger)
	notifications := service.NewNotificationService(storage, logger)
	hub := realtime.NewHub(logger)

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   7 * 24 * 60 * 60,
	}

	router := newRouter(storage, store, messages, notifications, hub, logger)

	// No write timeout: the /ws endpoint holds connections open indefinitely.
	server := &http.Server{
		Addr:           cfg.HTTPAddress,
		Handler:        router,
		MaxHeaderBytes: 1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("shutdown did not finish cleanly")
		}
	}()

	logger.WithField("address", cfg.HTTPAddress).Info("listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server stopped")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func newRouter(
	storage *data.Storage,
	store *sessions.CookieStore,
	messages service.MessageService,
	notifications service.NotificationService,
	hub *realtime.Hub,
	logger *logrus.Logger,
) *mux.Router {
	messageHandler := handler.NewMessageHandler(messages, hub, logger)
	notificationHandler := handler.NewNotificationHandler(notifications, hub, logger)
	sessionHandler := handler.NewSessionHandler(store, logger)
	healthHandler := handler.NewHealthHandler(storage)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", healthHandler.Check).Methods(http.MethodGet)
	router.HandleFunc("/session", sessionHandler.Create).Methods(http.MethodPost)
	router.HandleFunc("/session", sessionHandler.Destroy).Methods(http.MethodDelete)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(store))

	msg := api.PathPrefix("/messages").Subrouter()
	msg.HandleFunc("/send", messageHandler.Send).Methods(http.MethodPost)
	msg.HandleFunc("/messages", messageHandler.GetMessages).Methods(http.MethodGet)
	msg.HandleFunc("/conversations", messageHandler.GetConversations).Methods(http.MethodGet)
	msg.HandleFunc("/mark-read", messageHandler.MarkRead).Methods(http.MethodPut)
	msg.HandleFunc("/unread-count", messageHandler.TotalUnreadCount).Methods(http.MethodGet)
	msg.HandleFunc("/conversation-unread-count", messageHandler.ConversationUnreadCount).Methods(http.MethodGet)
	msg.HandleFunc("/stats", messageHandler.Stats).Methods(http.MethodGet)
	msg.HandleFunc("/clear", messageHandler.Clear).Methods(http.MethodDelete)

	notif := api.PathPrefix("/notifications").Subrouter()
	notif.HandleFunc("/create", notificationHandler.Create).Methods(http.MethodPost)
	notif.HandleFunc("/list", notificationHandler.List).Methods(http.MethodGet)
	notif.HandleFunc("/mark-read/{id}", notificationHandler.MarkRead).Methods(http.MethodPut)
	notif.HandleFunc("/mark-all-read", notificationHandler.MarkAllRead).Methods(http.MethodPut)
	notif.HandleFunc("/unread-count", notificationHandler.UnreadCount).Methods(http.MethodGet)
	notif.HandleFunc("/stats", notificationHandler.Stats).Methods(http.MethodGet)
	notif.HandleFunc("/delete/{id}", notificationHandler.Delete).Methods(http.MethodDelete)
	notif.HandleFunc("/delete-all", notificationHandler.DeleteAll).Methods(http.MethodDelete)

	ws := router.PathPrefix("/ws").Subrouter()
	ws.Use(middleware.Auth(store))
	ws.HandleFunc("", realtime.ServeWS(hub, logger)).Methods(http.MethodGet)

	return router
}
