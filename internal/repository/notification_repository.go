package repository

import (
	"errors"

	"jobboard/internal/entity"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *entity.Notification) error
	GetByID(id string) (*entity.Notification, error) // nil, nil when absent
	ListFor(receiver entity.Participant, limit, offset int) ([]*entity.Notification, error)
	MarkRead(id string) (bool, error) // false when already read or missing
	MarkAllRead(receiver entity.Participant) (int64, error)
	CountUnread(receiver entity.Participant) (int64, error)
	Delete(id string) (bool, error)
	DeleteAll(receiver entity.Participant) (int64, error)
	Count() (int64, error)
	CountAllUnread() (int64, error)
}

type SQLiteNotificationRepository struct {
	db *gorm.DB
}

func NewSQLiteNotificationRepository(db *gorm.DB) NotificationRepository {
	return &SQLiteNotificationRepository{db}
}

func (repo *SQLiteNotificationRepository) Create(notification *entity.Notification) error {
	return repo.db.Create(notification).Error
}

func (repo *SQLiteNotificationRepository) GetByID(id string) (*entity.Notification, error) {
	var notification entity.Notification
	err := repo.db.Where("id = ?", id).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (repo *SQLiteNotificationRepository) ListFor(receiver entity.Participant, limit, offset int) ([]*entity.Notification, error) {
	var notifications []*entity.Notification
	err := repo.db.
		Where("receiver_type = ? AND receiver_id = ?", receiver.Type, receiver.ID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

func (repo *SQLiteNotificationRepository) MarkRead(id string) (bool, error) {
	res := repo.db.Model(&entity.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

func (repo *SQLiteNotificationRepository) MarkAllRead(receiver entity.Participant) (int64, error) {
	res := repo.db.Model(&entity.Notification{}).
		Where("receiver_type = ? AND receiver_id = ? AND is_read = ?", receiver.Type, receiver.ID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (repo *SQLiteNotificationRepository) CountUnread(receiver entity.Participant) (int64, error) {
	var count int64
	err := repo.db.Model(&entity.Notification{}).
		Where("receiver_type = ? AND receiver_id = ? AND is_read = ?", receiver.Type, receiver.ID, false).
		Count(&count).Error
	return count, err
}

func (repo *SQLiteNotificationRepository) Delete(id string) (bool, error) {
	res := repo.db.Where("id = ?", id).Delete(&entity.Notification{})
	return res.RowsAffected > 0, res.Error
}

func (repo *SQLiteNotificationRepository) DeleteAll(receiver entity.Participant) (int64, error) {
	res := repo.db.
		Where("receiver_type = ? AND receiver_id = ?", receiver.Type, receiver.ID).
		Delete(&entity.Notification{})
	return res.RowsAffected, res.Error
}

func (repo *SQLiteNotificationRepository) Count() (int64, error) {
	var count int64
	err := repo.db.Model(&entity.Notification{}).Count(&count).Error
	return count, err
}

func (repo *SQLiteNotificationRepository) CountAllUnread() (int64, error) {
	var count int64
	err := repo.db.Model(&entity.Notification{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}
