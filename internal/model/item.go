package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit types. WEIGHT quantities are edited in grams on the client but stored
// in kilograms (stored amount = entered grams / 1000).
const (
	UnitTypeUnit   = "UNIT"
	UnitTypeWeight = "WEIGHT"
)

// Defaults applied when an item is created without classification.
const (
	DefaultCategory = "Outros"
	DefaultBrand    = "Genérico"
)

// Item is a single product line inside a List.
// Invariant: Completed implies Price >= 0 and Amount > 0.
type Item struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ListID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"not null"`
	UnitType  string          `gorm:"not null;default:'UNIT'"` // UNIT | WEIGHT
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,3);not null;default:1"`
	Completed bool            `gorm:"not null;default:false"`
	Category  string          `gorm:"not null;default:'Outros'"`
	Brand     string          `gorm:"not null;default:'Genérico'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
