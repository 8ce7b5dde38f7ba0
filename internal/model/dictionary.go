package model

import (
	"time"

	"github.com/google/uuid"
)

// DictionaryEntry is a curated product term used by the input suggestion
// feature. Synonyms allow matching alternative spellings to the canonical term.
type DictionaryEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Term          string    `gorm:"uniqueIndex;not null"`
	Synonyms      []string  `gorm:"serializer:json;type:jsonb"`
	Category      string    `gorm:"not null;default:'Outros'"`
	SuggestedUnit string    `gorm:"not null;default:'UNIT'"`
	CreatedAt     time.Time
}
