package service

import (
	"time"

	"jobboard/internal/data"
	"jobboard/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationService is the notification store. Counters here are kept
// arithmetically (increment on create, floored decrement on single
// mark-read, reset on mark-all and delete-all): each notification has
// exactly one reader, so the recount machinery of the message side is not
// needed.
type NotificationService interface {
	Create(receiver, sender entity.Participant, message string) (*entity.Notification, error)
	GetByID(id string) (*entity.Notification, error) // nil, nil when absent
	List(receiver entity.Participant, limit, offset int) ([]*entity.Notification, error)
	MarkAsRead(id string) (bool, error) // false when already read or missing
	MarkAllAsRead(receiver entity.Participant) (int64, error)
	UnreadCount(receiver entity.Participant) int64
	Delete(id string) (bool, error)
	DeleteAll(receiver entity.Participant) (int64, error)
	Stats() *NotificationStats
}

// NotificationStats reports table sizes for the ops endpoints.
type NotificationStats struct {
	TotalNotifications  int64 `json:"totalNotifications"`
	UnreadNotifications int64 `json:"unreadNotifications"`
	TotalReceivers      int64 `json:"totalReceivers"`
}

const defaultListLimit = 20

type dbNotificationService struct {
	storage *data.Storage
	logger  logrus.FieldLogger
}

func NewNotificationService(storage *data.Storage, logger logrus.FieldLogger) NotificationService {
	return &dbNotificationService{storage: storage, logger: logger}
}

func (s *dbNotificationService) Create(receiver, sender entity.Participant, message string) (*entity.Notification, error) {
	if err := requireFields(
		field{"receiverType", receiver.Type},
		field{"receiverId", receiver.ID},
		field{"senderType", sender.Type},
		field{"senderId", sender.ID},
		field{"message", message},
	); err != nil {
		return nil, err
	}

	notification := &entity.Notification{
		ID:           uuid.New().String(),
		ReceiverType: receiver.Type,
		ReceiverID:   receiver.ID,
		SenderType:   sender.Type,
		SenderID:     sender.ID,
		Message:      message,
		IsRead:       false,
		CreatedAt:    time.Now(),
	}
	if err := s.storage.Notifications().Create(notification); err != nil {
		return nil, &PersistenceError{Op: "insert notification", Err: err}
	}

	if err := s.storage.NotificationCounts().Increment(receiver); err != nil {
		s.logger.WithError(err).WithField("receiver", receiver.Room()).
			Warn("notification counter increment failed")
	}

	return notification, nil
}

func (s *dbNotificationService) GetByID(id string) (*entity.Notification, error) {
	notification, err := s.storage.Notifications().GetByID(id)
	if err != nil {
		return nil, &PersistenceError{Op: "load notification", Err: err}
	}
	return notification, nil
}

func (s *dbNotificationService) List(receiver entity.Participant, limit, offset int) ([]*entity.Notification, error) {
	if err := requireFields(
		field{"userType", receiver.Type},
		field{"userId", receiver.ID},
	); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	notifications, err := s.storage.Notifications().ListFor(receiver, limit, offset)
	if err != nil {
		return nil, &PersistenceError{Op: "load notifications", Err: err}
	}
	return notifications, nil
}

func (s *dbNotificationService) MarkAsRead(id string) (bool, error) {
	changed, err := s.storage.Notifications().MarkRead(id)
	if err != nil {
		return false, &PersistenceError{Op: "mark notification read", Err: err}
	}
	if !changed {
		return false, nil
	}

	notification, err := s.storage.Notifications().GetByID(id)
	if err != nil || notification == nil {
		s.logger.WithField("id", id).Warn("notification vanished before counter decrement")
		return true, nil
	}
	if err := s.storage.NotificationCounts().Decrement(notification.Receiver()); err != nil {
		s.logger.WithError(err).WithField("receiver", notification.Receiver().Room()).
			Warn("notification counter decrement failed")
	}
	return true, nil
}

func (s *dbNotificationService) MarkAllAsRead(receiver entity.Participant) (int64, error) {
	if err := requireFields(
		field{"userType", receiver.Type},
		field{"userId", receiver.ID},
	); err != nil {
		return 0, err
	}
	affected, err := s.storage.Notifications().MarkAllRead(receiver)
	if err != nil {
		return 0, &PersistenceError{Op: "mark all notifications read", Err: err}
	}
	if affected > 0 {
		if err := s.storage.NotificationCounts().Reset(receiver); err != nil {
			s.logger.WithError(err).WithField("receiver", receiver.Room()).
				Warn("notification counter reset failed")
		}
	}
	return affected, nil
}

func (s *dbNotificationService) UnreadCount(receiver entity.Participant) int64 {
	count, err := s.storage.NotificationCounts().Get(receiver)
	if err == nil {
		return count
	}
	s.logger.WithError(err).Warn("notification counter read failed, recounting")

	// The notifications table stays the source of truth, so a broken counter
	// row degrades to a live recount instead of lying with 0.
	count, err = s.storage.Notifications().CountUnread(receiver)
	if err != nil {
		s.logger.WithError(err).Warn("notification recount failed, reporting 0")
		return 0
	}
	return count
}

func (s *dbNotificationService) Delete(id string) (bool, error) {
	deleted, err := s.storage.Notifications().Delete(id)
	if err != nil {
		return false, &PersistenceError{Op: "delete notification", Err: err}
	}
	return deleted, nil
}

func (s *dbNotificationService) DeleteAll(receiver entity.Participant) (int64, error) {
	if err := requireFields(
		field{"userType", receiver.Type},
		field{"userId", receiver.ID},
	); err != nil {
		return 0, err
	}
	affected, err := s.storage.Notifications().DeleteAll(receiver)
	if err != nil {
		return 0, &PersistenceError{Op: "delete all notifications", Err: err}
	}
	if err := s.storage.NotificationCounts().Reset(receiver); err != nil {
		s.logger.WithError(err).WithField("receiver", receiver.Room()).
			Warn("notification counter reset failed")
	}
	return affected, nil
}

func (s *dbNotificationService) Stats() *NotificationStats {
	stats := &NotificationStats{}
	var err error
	if stats.TotalNotifications, err = s.storage.Notifications().Count(); err != nil {
		s.logger.WithError(err).Warn("notification count failed")
	}
	if stats.UnreadNotifications, err = s.storage.Notifications().CountAllUnread(); err != nil {
		s.logger.WithError(err).Warn("unread notification count failed")
	}
	if stats.TotalReceivers, err = s.storage.NotificationCounts().Count(); err != nil {
		s.logger.WithError(err).Warn("notification receiver count failed")
	}
	return stats
}
