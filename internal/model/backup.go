package model

import (
	"time"

	"github.com/google/uuid"
)

// Backup is the whole-blob remote copy of a user's {lists, items, history}
// state. Push overwrites it unconditionally (last-writer-wins at blob
// granularity — no field-level merge).
type Backup struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Data      []byte    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}
