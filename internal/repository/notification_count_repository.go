package repository

import (
	"errors"
	"time"

	"jobboard/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Per-receiver notification counter. Unlike the message counter this one is
// maintained arithmetically: notifications have a single reader, so a
// floored decrement cannot drift the way a shared pair counter can.
type NotificationCountRepository interface {
	Increment(receiver entity.Participant) error
	Decrement(receiver entity.Participant) error // Floored at zero
	Reset(receiver entity.Participant) error
	Get(receiver entity.Participant) (int64, error) // Missing row reads as 0
	Count() (int64, error)
}

type SQLiteNotificationCountRepository struct {
	db *gorm.DB
}

func NewSQLiteNotificationCountRepository(db *gorm.DB) NotificationCountRepository {
	return &SQLiteNotificationCountRepository{db}
}

func (repo *SQLiteNotificationCountRepository) Increment(receiver entity.Participant) error {
	row := &entity.NotificationCount{
		UserType:    receiver.Type,
		UserID:      receiver.ID,
		UnreadCount: 1,
	}
	return repo.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_type"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"unread_count": gorm.Expr("unread_count + 1"),
			"updated_at":   time.Now(),
		}),
	}).Create(row).Error
}

func (repo *SQLiteNotificationCountRepository) Decrement(receiver entity.Participant) error {
	return repo.db.Model(&entity.NotificationCount{}).
		Where("user_type = ? AND user_id = ?", receiver.Type, receiver.ID).
		Updates(map[string]interface{}{
			"unread_count": gorm.Expr("MAX(unread_count - 1, 0)"),
			"updated_at":   time.Now(),
		}).Error
}

func (repo *SQLiteNotificationCountRepository) Reset(receiver entity.Participant) error {
	return repo.db.Model(&entity.NotificationCount{}).
		Where("user_type = ? AND user_id = ?", receiver.Type, receiver.ID).
		Updates(map[string]interface{}{
			"unread_count": 0,
			"updated_at":   time.Now(),
		}).Error
}

func (repo *SQLiteNotificationCountRepository) Get(receiver entity.Participant) (int64, error) {
	var row entity.NotificationCount
	err := repo.db.
		Where("user_type = ? AND user_id = ?", receiver.Type, receiver.ID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.UnreadCount, nil
}

func (repo *SQLiteNotificationCountRepository) Count() (int64, error) {
	var count int64
	err := repo.db.Model(&entity.NotificationCount{}).Count(&count).Error
	return count, err
}
