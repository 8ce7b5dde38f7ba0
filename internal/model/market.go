package model

import "time"

// Market is a crowdsourced store record keyed by its OSM place id.
// Upserted best-effort whenever a list is finalized against it.
type Market struct {
	OSMID     string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
