package model

import "time"

// TranslationSuggestion is a candidate translation that is not live yet.
// Only one suggestion exists per (entity, text, language).
type TranslationSuggestion struct {
	ID             uint    `gorm:"primaryKey"`
	SourceEntityID uint    `gorm:"not null;uniqueIndex:idx_suggestions_key,priority:1"`
	String         string  `gorm:"not null;uniqueIndex:idx_suggestions_key,priority:2"`
	LanguageCode   string  `gorm:"not null;uniqueIndex:idx_suggestions_key,priority:3"`
	Score          float64 `gorm:"not null;default:0"`
	Live           bool    `gorm:"not null;default:false"`
	UserID         *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TranslationSuggestion) TableName() string {
	return "translation_suggestions"
}
