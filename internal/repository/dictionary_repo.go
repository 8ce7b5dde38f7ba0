package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/pricing"
)

// DictionaryRepository serves the curated product dictionary used by input
// suggestions and bulk-loaded by cmd/dictload.
type DictionaryRepository interface {
	Search(ctx context.Context, query string, limit int) ([]model.DictionaryEntry, error)
	BulkInsert(ctx context.Context, entries []model.DictionaryEntry, batchSize int) error
}

type dictionaryRepo struct{ db *gorm.DB }

func NewDictionaryRepository(db *gorm.DB) DictionaryRepository { return &dictionaryRepo{db: db} }

// Search matches the canonical term or any synonym. Synonyms are a jsonb
// array, so the match runs against its text form — good enough for a
// six-result suggestion box.
func (r *dictionaryRepo) Search(ctx context.Context, query string, limit int) ([]model.DictionaryEntry, error) {
	if limit < 1 {
		limit = 5
	}
	pattern := "%" + pricing.Normalize(query) + "%"
	var entries []model.DictionaryEntry
	err := r.db.WithContext(ctx).
		Where("term ILIKE ? OR synonyms::text ILIKE ?", pattern, pattern).
		Order("term ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// BulkInsert loads dictionary rows in batches, skipping terms that already
// exist. Used by the dictload CLI.
func (r *dictionaryRepo) BulkInsert(ctx context.Context, entries []model.DictionaryEntry, batchSize int) error {
	if len(entries) == 0 {
		return nil
	}
	if batchSize < 1 {
		batchSize = 500
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "term"}},
			DoNothing: true,
		}).
		CreateInBatches(&entries, batchSize).Error
}
