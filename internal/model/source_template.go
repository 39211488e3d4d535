package model

import "time"

// SourceTemplate keeps a regenerated template of a resource. The newest row is
// the source language baseline.
type SourceTemplate struct {
	ID          uint   `gorm:"primaryKey"`
	ResourceID  string `gorm:"not null;index"`
	Content     []byte
	Compression string // the codec used to encode Content
	CreatedAt   time.Time
}

func (SourceTemplate) TableName() string {
	return "source_templates"
}
