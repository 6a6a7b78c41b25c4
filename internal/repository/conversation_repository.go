package repository

import (
	"jobboard/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository interface {
	Upsert(conversation *entity.Conversation) error                   // Insert, or overwrite the last-message fields
	ListFor(p entity.Participant) ([]*entity.Conversation, error)     // Either slot, most recent first
	Count() (int64, error)
	Clear() error
}

type SQLiteConversationRepository struct {
	db *gorm.DB
}

func NewSQLiteConversationRepository(db *gorm.DB) ConversationRepository {
	return &SQLiteConversationRepository{db}
}

func (repo *SQLiteConversationRepository) Upsert(conversation *entity.Conversation) error {
	return repo.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_message", "last_timestamp", "updated_at"}),
	}).Create(conversation).Error
}

func (repo *SQLiteConversationRepository) ListFor(p entity.Participant) ([]*entity.Conversation, error) {
	var conversations []*entity.Conversation
	err := repo.db.
		Where("(user1_type = ? AND user1_id = ?) OR (user2_type = ? AND user2_id = ?)",
			p.Type, p.ID, p.Type, p.ID).
		Order("last_timestamp DESC").
		Find(&conversations).Error
	return conversations, err
}

func (repo *SQLiteConversationRepository) Count() (int64, error) {
	var count int64
	err := repo.db.Model(&entity.Conversation{}).Count(&count).Error
	return count, err
}

func (repo *SQLiteConversationRepository) Clear() error {
	return repo.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.Conversation{}).Error
}
