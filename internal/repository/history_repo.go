package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/model"
)

// HistoryRepository stores finalized shopping trips. Entries are immutable —
// the only write operations besides Create are deletion.
type HistoryRepository interface {
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.HistoryEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.HistoryEntry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error

	CreateTx(tx *gorm.DB, e *model.HistoryEntry) error
	ReplaceAllTx(tx *gorm.DB, userID uuid.UUID, entries []model.HistoryEntry) error
}

type historyRepo struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) HistoryRepository { return &historyRepo{db: db} }

func (r *historyRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.HistoryEntry, error) {
	var e model.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByUser returns entries newest-first (finalize prepends).
func (r *historyRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *historyRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.HistoryEntry{}).Error
}

func (r *historyRepo) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.HistoryEntry{}).Error
}

func (r *historyRepo) CreateTx(tx *gorm.DB, e *model.HistoryEntry) error {
	return tx.Create(e).Error
}

func (r *historyRepo) ReplaceAllTx(tx *gorm.DB, userID uuid.UUID, entries []model.HistoryEntry) error {
	if err := tx.Where("user_id = ?", userID).Delete(&model.HistoryEntry{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return tx.Create(&entries).Error
}
