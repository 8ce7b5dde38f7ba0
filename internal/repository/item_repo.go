package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/model"
)

// ItemRepository defines the data access contract for list items.
type ItemRepository interface {
	Create(ctx context.Context, it *model.Item) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Item, error)
	ListByList(ctx context.Context, userID, listID uuid.UUID) ([]model.Item, error)
	Update(ctx context.Context, it *model.Item) error
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, it *model.Item) error
	UpdateTx(tx *gorm.DB, it *model.Item) error
	DeleteByListTx(tx *gorm.DB, userID, listID uuid.UUID) error

	// ReplaceAllTx swaps the user's entire item set (backup restore).
	ReplaceAllTx(tx *gorm.DB, userID uuid.UUID, items []model.Item) error
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) ListByList(ctx context.Context, userID, listID uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND list_id = ?", userID, listID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) Update(ctx context.Context, it *model.Item) error {
	// Save writes all fields, including zero values (price 0, completed false)
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *itemRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.Item{}).Error
}

func (r *itemRepo) CreateTx(tx *gorm.DB, it *model.Item) error {
	return tx.Create(it).Error
}

func (r *itemRepo) UpdateTx(tx *gorm.DB, it *model.Item) error {
	return tx.Save(it).Error
}

func (r *itemRepo) DeleteByListTx(tx *gorm.DB, userID, listID uuid.UUID) error {
	return tx.Where("user_id = ? AND list_id = ?", userID, listID).Delete(&model.Item{}).Error
}

func (r *itemRepo) ReplaceAllTx(tx *gorm.DB, userID uuid.UUID, items []model.Item) error {
	if err := tx.Where("user_id = ?", userID).Delete(&model.Item{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}
