package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceObservation is one recorded (market, item, price) fact contributed at
// finalize time. The table is append-only — rows are never updated or deleted
// by this service. ItemName is stored in normalized form (lowercase, trimmed).
type PriceObservation struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MarketID     string          `gorm:"not null;index"`
	ItemName     string          `gorm:"not null;index"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Unit         string          `gorm:"not null;default:'UNIT'"`
	Category     string          `gorm:"not null;default:'Outros'"`
	PurchaseDate time.Time       `gorm:"not null"`
	CreatedAt    time.Time

	Market *Market `gorm:"foreignKey:MarketID"`
}
