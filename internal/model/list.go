package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// List is an in-progress shopping list. Total is derived — it is recomputed
// from the completed items after every item mutation and never written directly
// by handlers.
type List struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name   string          `gorm:"not null"`
	Total  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Locked market binding. Once a list is bound to a market (at finalize time
	// or when a segmentation list is created) the binding never changes.
	MarketID      *string
	MarketName    *string
	MarketAddress *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locked reports whether the list is bound to a market.
func (l *List) Locked() bool {
	return l.MarketID != nil && *l.MarketID != ""
}

// LockTo binds the list to a market.
func (l *List) LockTo(m MarketInfo) {
	id, name, addr := m.ID, m.Name, m.Address
	l.MarketID = &id
	l.MarketName = &name
	l.MarketAddress = &addr
}

// MarketInfo is the store binding carried by lists, finalize requests and
// best-price entries. ID is the OSM place id as a string.
type MarketInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
