package data

import (
	"jobboard/internal/entity"
	"jobboard/internal/repository"

	"gorm.io/gorm"
)

// Storage gathers every repository over a single database handle. One
// instance is built at process startup and handed to the services, which
// keeps the single-store-per-process model without hidden globals.
type Storage struct {
	db *gorm.DB // Under the hood we use the SQLite implementations

	messages           repository.MessageRepository
	conversations      repository.ConversationRepository
	unreadCounts       repository.UnreadCountRepository
	notifications      repository.NotificationRepository
	notificationCounts repository.NotificationCountRepository
}

func NewStorage(db *gorm.DB) *Storage {
	return &Storage{
		db:                 db,
		messages:           repository.NewSQLiteMessageRepository(db),
		conversations:      repository.NewSQLiteConversationRepository(db),
		unreadCounts:       repository.NewSQLiteUnreadCountRepository(db),
		notifications:      repository.NewSQLiteNotificationRepository(db),
		notificationCounts: repository.NewSQLiteNotificationCountRepository(db),
	}
}

// AutoMigrate creates the messaging and notification tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Message{},
		&entity.Conversation{},
		&entity.UnreadCount{},
		&entity.Notification{},
		&entity.NotificationCount{},
	)
}

func (s *Storage) Messages() repository.MessageRepository {
	return s.messages
}

func (s *Storage) Conversations() repository.ConversationRepository {
	return s.conversations
}

func (s *Storage) UnreadCounts() repository.UnreadCountRepository {
	return s.unreadCounts
}

func (s *Storage) Notifications() repository.NotificationRepository {
	return s.notifications
}

func (s *Storage) NotificationCounts() repository.NotificationCountRepository {
	return s.notificationCounts
}

// Ping checks that the underlying database connection is alive.
func (s *Storage) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
