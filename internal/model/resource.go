package model

import "time"

// Resource is a translatable unit of a project, equivalent to one template file
// (a .pot file, a source .properties file, ...). Name and slug are unique inside
// the project.
type Resource struct {
	ID             string `gorm:"primaryKey;uuid;not null"`
	ProjectID      string `gorm:"not null;uniqueIndex:idx_resources_project_name,priority:1;uniqueIndex:idx_resources_project_slug,priority:1"`
	Name           string `gorm:"size:255;not null;uniqueIndex:idx_resources_project_name,priority:2"`
	Slug           string `gorm:"size:50;not null;uniqueIndex:idx_resources_project_slug,priority:2"`
	SourceLanguage string `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Resource) TableName() string {
	return "resources"
}
