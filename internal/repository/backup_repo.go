package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vinecunha/riscae/internal/model"
)

// BackupRepository stores the whole-blob remote backup per user.
type BackupRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Backup, error)
	Put(ctx context.Context, userID uuid.UUID, data []byte, updatedAt time.Time) error
}

type backupRepo struct{ db *gorm.DB }

func NewBackupRepository(db *gorm.DB) BackupRepository { return &backupRepo{db: db} }

func (r *backupRepo) Get(ctx context.Context, userID uuid.UUID) (*model.Backup, error) {
	var b model.Backup
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Put overwrites the user's backup unconditionally (last-writer-wins).
func (r *backupRepo) Put(ctx context.Context, userID uuid.UUID, data []byte, updatedAt time.Time) error {
	b := model.Backup{UserID: userID, Data: data, UpdatedAt: updatedAt}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&b).Error
}
