package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/model"
)

// ListRepository defines the data access contract for shopping lists.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ListRepository interface {
	Create(ctx context.Context, l *model.List) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.List, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.List, error)
	UpdateName(ctx context.Context, userID, id uuid.UUID, name string) error
	UpdateTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error

	// FindSegmentationTarget returns the open list already bound to marketID
	// with the given generated name, if one exists. Active lists are by
	// construction unfinished — finalize destroys the list.
	FindSegmentationTarget(ctx context.Context, userID uuid.UUID, marketID, name string) (*model.List, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, l *model.List) error
	DeleteTx(tx *gorm.DB, userID, id uuid.UUID) error

	// ReplaceAllTx swaps the user's entire list set (backup restore).
	ReplaceAllTx(tx *gorm.DB, userID uuid.UUID, lists []model.List) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type listRepo struct{ db *gorm.DB }

func NewListRepository(db *gorm.DB) ListRepository { return &listRepo{db: db} }

func (r *listRepo) Create(ctx context.Context, l *model.List) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *listRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.List, error) {
	var l model.List
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.List, error) {
	var lists []model.List
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lists).Error
	return lists, err
}

func (r *listRepo) UpdateName(ctx context.Context, userID, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).
		Model(&model.List{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("name", name).Error
}

func (r *listRepo) UpdateTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	return r.db.
		Model(&model.List{}).
		Where("id = ?", id).
		Update("total", total).Error
}

func (r *listRepo) FindSegmentationTarget(ctx context.Context, userID uuid.UUID, marketID, name string) (*model.List, error) {
	var l model.List
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND market_id = ? AND name = ?", userID, marketID, name).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listRepo) CreateTx(tx *gorm.DB, l *model.List) error {
	return tx.Create(l).Error
}

func (r *listRepo) DeleteTx(tx *gorm.DB, userID, id uuid.UUID) error {
	return tx.Where("user_id = ? AND id = ?", userID, id).Delete(&model.List{}).Error
}

func (r *listRepo) ReplaceAllTx(tx *gorm.DB, userID uuid.UUID, lists []model.List) error {
	if err := tx.Where("user_id = ?", userID).Delete(&model.List{}).Error; err != nil {
		return err
	}
	if len(lists) == 0 {
		return nil
	}
	return tx.Create(&lists).Error
}

func (r *listRepo) DB() *gorm.DB { return r.db }
