package model

import "time"

// ResourceStat is the persisted statistics snapshot of a resource for one language.
type ResourceStat struct {
	ID            uint   `gorm:"primaryKey"`
	ResourceID    string `gorm:"not null;uniqueIndex:idx_resource_stats_key,priority:1"`
	LanguageCode  string `gorm:"not null;uniqueIndex:idx_resource_stats_key,priority:2"`
	Total         int
	Translated    int
	Untranslated  int
	Percent       int
	LastCommitter *string
	UpdatedAt     time.Time
}

func (ResourceStat) TableName() string {
	return "resource_stats"
}
