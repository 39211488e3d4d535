package model

import "time"

// NoContext is stored in place of an empty context, so the merge key never holds a null.
const NoContext = "None"

// SourceEntity is a distinct source string of a resource. The tuple
// (string, context, resource, number) is unique and acts as the merge key.
type SourceEntity struct {
	ID               uint   `gorm:"primaryKey"`
	String           string `gorm:"size:255;not null;uniqueIndex:idx_source_entities_key,priority:1"`
	Context          string `gorm:"size:255;not null;uniqueIndex:idx_source_entities_key,priority:2"`
	ResourceID       string `gorm:"not null;uniqueIndex:idx_source_entities_key,priority:3"`
	Number           int    `gorm:"not null;uniqueIndex:idx_source_entities_key,priority:4"` // 0 singular, 1.. plural forms
	Position         *int
	Occurrences      string
	Flags            string
	DeveloperComment string
	// SingularID points a plural form back at its singular entity. Lookup only, never cascades.
	SingularID *uint `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SourceEntity) TableName() string {
	return "source_entities"
}

// NormalizeContext maps an absent context to NoContext.
func NormalizeContext(context string) string {
	if context == "" {
		return NoContext
	}
	return context
}
