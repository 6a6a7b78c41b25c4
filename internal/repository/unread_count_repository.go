package repository

import (
	"errors"
	"time"

	"jobboard/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Per-directed-pair message counter. Increment and Set are keyed upserts so
// that send and mark-as-read can race without leaving stray rows; Set exists
// because mark-as-read rewrites the counter from a live recount instead of
// decrementing.
type UnreadCountRepository interface {
	Increment(owner, other entity.Participant) error
	Set(owner, other entity.Participant, count int64) error
	Get(owner, other entity.Participant) (int64, error) // Missing row reads as 0
	Count() (int64, error)
	Clear() error
}

type SQLiteUnreadCountRepository struct {
	db *gorm.DB
}

func NewSQLiteUnreadCountRepository(db *gorm.DB) UnreadCountRepository {
	return &SQLiteUnreadCountRepository{db}
}

var unreadCountKey = []clause.Column{
	{Name: "user_type"}, {Name: "user_id"}, {Name: "other_type"}, {Name: "other_id"},
}

func (repo *SQLiteUnreadCountRepository) Increment(owner, other entity.Participant) error {
	row := &entity.UnreadCount{
		UserType:    owner.Type,
		UserID:      owner.ID,
		OtherType:   other.Type,
		OtherID:     other.ID,
		UnreadCount: 1,
	}
	return repo.db.Clauses(clause.OnConflict{
		Columns: unreadCountKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"unread_count": gorm.Expr("unread_count + 1"),
			"updated_at":   time.Now(),
		}),
	}).Create(row).Error
}

func (repo *SQLiteUnreadCountRepository) Set(owner, other entity.Participant, count int64) error {
	row := &entity.UnreadCount{
		UserType:    owner.Type,
		UserID:      owner.ID,
		OtherType:   other.Type,
		OtherID:     other.ID,
		UnreadCount: count,
	}
	return repo.db.Clauses(clause.OnConflict{
		Columns: unreadCountKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"unread_count": count,
			"updated_at":   time.Now(),
		}),
	}).Create(row).Error
}

func (repo *SQLiteUnreadCountRepository) Get(owner, other entity.Participant) (int64, error) {
	var row entity.UnreadCount
	err := repo.db.
		Where("user_type = ? AND user_id = ? AND other_type = ? AND other_id = ?",
			owner.Type, owner.ID, other.Type, other.ID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.UnreadCount, nil
}

func (repo *SQLiteUnreadCountRepository) Count() (int64, error) {
	var count int64
	err := repo.db.Model(&entity.UnreadCount{}).Count(&count).Error
	return count, err
}

func (repo *SQLiteUnreadCountRepository) Clear() error {
	return repo.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.UnreadCount{}).Error
}
