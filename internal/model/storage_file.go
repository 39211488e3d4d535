package model

import (
	"fmt"
	"path/filepath"
	"time"
)

// StorageFile is an uploaded file waiting in the scratch directory.
type StorageFile struct {
	ID           string `gorm:"primaryKey;uuid;not null"`
	Name         string `gorm:"size:1024;not null"`
	Size         int64
	MimeType     string `gorm:"size:255"`
	LanguageCode string
	Bound        bool `gorm:"not null;default:false"` // bound to a resource, otherwise listed as a pending upload
	UserID       *string
	TotalStrings int
	CreatedAt    time.Time
}

func (StorageFile) TableName() string {
	return "storage_files"
}

// StoragePath returns the location of the uploaded bytes, <dir>/<uuid>-<name>.
func (f *StorageFile) StoragePath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s", f.ID, f.Name))
}

// Translatable reports whether any strings could be extracted from the file.
func (f *StorageFile) Translatable() bool {
	return f.TotalStrings > 0
}
