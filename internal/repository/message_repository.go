package repository

import (
	"jobboard/internal/entity"

	"gorm.io/gorm"
)

// Messages are append-only except for the seen flag. Rows are never deleted
// individually; Clear wipes the table for ops and test tooling.
type MessageRepository interface {
	Create(message *entity.Message) error
	GetBetween(a, b entity.Participant) ([]*entity.Message, error) // Both directions, oldest first
	MarkSeen(owner, other entity.Participant) (int64, error)       // Flips unseen rows directed other -> owner
	CountUnseen(owner, other entity.Participant) (int64, error)
	CountUnseenTotal(owner entity.Participant) (int64, error)
	Count() (int64, error)
	Clear() error
}

type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Create(message *entity.Message) error {
	return repo.db.Create(message).Error
}

func (repo *SQLiteMessageRepository) GetBetween(a, b entity.Participant) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.
		Where("(sender_type = ? AND sender_id = ? AND receiver_type = ? AND receiver_id = ?) OR (sender_type = ? AND sender_id = ? AND receiver_type = ? AND receiver_id = ?)",
			a.Type, a.ID, b.Type, b.ID,
			b.Type, b.ID, a.Type, a.ID).
		Order("timestamp ASC").
		Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) MarkSeen(owner, other entity.Participant) (int64, error) {
	res := repo.db.Model(&entity.Message{}).
		Where("receiver_type = ? AND receiver_id = ? AND sender_type = ? AND sender_id = ? AND seen = ?",
			owner.Type, owner.ID, other.Type, other.ID, false).
		Update("seen", true)
	return res.RowsAffected, res.Error
}

func (repo *SQLiteMessageRepository) CountUnseen(owner, other entity.Participant) (int64, error) {
	var count int64
	err := repo.db.Model(&entity.Message{}).
		Where("receiver_type = ? AND receiver_id = ? AND sender_type = ? AND sender_id = ? AND seen = ?",
			owner.Type, owner.ID, other.Type, other.ID, false).
		Count(&count).Error
	return count, err
}

func (repo *SQLiteMessageRepository) CountUnseenTotal(owner entity.Participant) (int64, error) {
	var count int64
	err := repo.db.Model(&entity.Message{}).
		Where("receiver_type = ? AND receiver_id = ? AND seen = ?", owner.Type, owner.ID, false).
		Count(&count).Error
	return count, err
}

func (repo *SQLiteMessageRepository) Count() (int64, error) {
	var count int64
	err := repo.db.Model(&entity.Message{}).Count(&count).Error
	return count, err
}

func (repo *SQLiteMessageRepository) Clear() error {
	return repo.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.Message{}).Error
}
