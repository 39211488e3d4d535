package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Resource{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&SourceEntity{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Translation{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&TranslationSuggestion{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&StorageFile{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&ResourceStat{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&SourceTemplate{}); err != nil {
		return err
	}

	return nil
}
