package model

import (
	"strings"
	"time"
)

// Translation is the text of a source entity in one language at one plural number.
// The text itself is not part of the identity, updates rewrite it in place.
type Translation struct {
	ID             uint   `gorm:"primaryKey"`
	SourceEntityID uint   `gorm:"not null;uniqueIndex:idx_translations_key,priority:1"`
	LanguageCode   string `gorm:"not null;uniqueIndex:idx_translations_key,priority:2"`
	ResourceID     string `gorm:"not null;uniqueIndex:idx_translations_key,priority:3"`
	Number         int    `gorm:"not null;uniqueIndex:idx_translations_key,priority:4"`
	String         string `gorm:"not null"`
	UserID         *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Translation) TableName() string {
	return "translations"
}

// WordCount counts whitespace delimited tokens, runs of whitespace count once.
func (t *Translation) WordCount() int {
	return len(strings.Fields(t.String))
}
