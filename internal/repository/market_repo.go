package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vinecunha/riscae/internal/model"
)

// MarketRepository persists crowdsourced store records keyed by OSM place id.
type MarketRepository interface {
	Upsert(ctx context.Context, m model.MarketInfo) error
	FindByOSMID(ctx context.Context, osmID string) (*model.Market, error)
}

type marketRepo struct{ db *gorm.DB }

func NewMarketRepository(db *gorm.DB) MarketRepository { return &marketRepo{db: db} }

func (r *marketRepo) Upsert(ctx context.Context, m model.MarketInfo) error {
	record := model.Market{OSMID: m.ID, Name: m.Name, Address: m.Address}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "osm_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "address", "updated_at"}),
		}).
		Create(&record).Error
}

func (r *marketRepo) FindByOSMID(ctx context.Context, osmID string) (*model.Market, error) {
	var m model.Market
	err := r.db.WithContext(ctx).Where("osm_id = ?", osmID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
