package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryEntry is the immutable snapshot produced by finalizing a list.
// It is read-only after creation; the only further operations are deletion and
// duplication (which spawns a fresh List + Items, never mutating the entry).
type HistoryEntry struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ListName       string          `gorm:"not null"`
	Date           time.Time       `gorm:"not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ItemsCount     int             `gorm:"not null"`
	CompletedCount int             `gorm:"not null"`
	Market         string          `gorm:"not null"`
	MarketID       string          `gorm:"not null"`
	// Items is a deep copy of the completed items at finalize time.
	Items     []HistoryItem `gorm:"serializer:json;type:jsonb"`
	CreatedAt time.Time
}

// HistoryItem is one frozen item line inside a HistoryEntry snapshot.
type HistoryItem struct {
	Name     string          `json:"name"`
	UnitType string          `json:"unit_type"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Brand    string          `json:"brand"`
}
