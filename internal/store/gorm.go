package store

import (
	"context"
	"errors"

	"github.com/emrgen/happix/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxConflictRetries bounds the insert/read loop of the get-or-create operations.
const maxConflictRetries = 3

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateResource(ctx context.Context, resource *model.Resource) error {
	return g.db.WithContext(ctx).Create(resource).Error
}

func (g *GormStore) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	var resources []*model.Resource
	err := g.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&resources).Error
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, ErrResourceNotFound
	}

	return resources[0], nil
}

func (g *GormStore) GetResourceBySlug(ctx context.Context, projectID, slug string) (*model.Resource, error) {
	var resources []*model.Resource
	err := g.db.WithContext(ctx).Where("project_id = ? AND slug = ?", projectID, slug).Limit(1).Find(&resources).Error
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, ErrResourceNotFound
	}

	return resources[0], nil
}

func (g *GormStore) ListResources(ctx context.Context, projectID string) ([]*model.Resource, error) {
	var resources []*model.Resource
	err := g.db.WithContext(ctx).Where("project_id = ?", projectID).Order("name").Find(&resources).Error
	return resources, err
}

// ResetResource removes the strings of a resource. It is the only path that deletes source entities.
// NOTE: should run in a transaction
func (g *GormStore) ResetResource(ctx context.Context, id string) error {
	db := g.db.WithContext(ctx)
	entityIDs := db.Model(&model.SourceEntity{}).Select("id").Where("resource_id = ?", id)

	if err := db.Where("source_entity_id IN (?)", entityIDs).Delete(&model.TranslationSuggestion{}).Error; err != nil {
		return err
	}

	if err := db.Where("resource_id = ?", id).Delete(&model.Translation{}).Error; err != nil {
		return err
	}

	if err := db.Where("resource_id = ?", id).Delete(&model.SourceEntity{}).Error; err != nil {
		return err
	}

	return db.Where("resource_id = ?", id).Delete(&model.ResourceStat{}).Error
}

// GetOrCreateSourceEntity looks the merge key up and inserts it when missing. The insert
// skips on a unique conflict, the loser of a race then reads the winner's row.
func (g *GormStore) GetOrCreateSourceEntity(ctx context.Context, resourceID, str, context string, number int) (*model.SourceEntity, bool, error) {
	if str == "" {
		return nil, false, ErrEmptySourceString
	}
	context = model.NormalizeContext(context)

	db := g.db.WithContext(ctx)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		var entities []*model.SourceEntity
		err := db.Where("string = ? AND context = ? AND resource_id = ? AND number = ?", str, context, resourceID, number).
			Limit(1).Find(&entities).Error
		if err != nil {
			return nil, false, err
		}
		if len(entities) == 1 {
			return entities[0], false, nil
		}

		position := 1
		entity := &model.SourceEntity{
			String:     str,
			Context:    context,
			ResourceID: resourceID,
			Number:     number,
			Position:   &position,
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(entity)
		if res.Error != nil {
			return nil, false, res.Error
		}
		if res.RowsAffected == 1 {
			return entity, true, nil
		}

		logrus.Debugf("source entity %q/%q in resource %s created concurrently, retrying lookup", str, context, resourceID)
	}

	return nil, false, ErrConflictRetry
}

func (g *GormStore) UpdateSourceEntity(ctx context.Context, entity *model.SourceEntity) error {
	return g.db.WithContext(ctx).Model(entity).
		Select("position", "occurrences", "flags", "developer_comment", "singular_id").
		Updates(entity).Error
}

func (g *GormStore) ListSourceEntities(ctx context.Context, resourceID string) ([]*model.SourceEntity, error) {
	var entities []*model.SourceEntity
	err := g.db.WithContext(ctx).Where("resource_id = ?", resourceID).Order("id").Find(&entities).Error
	return entities, err
}

func (g *GormStore) CountSourceEntities(ctx context.Context, resourceID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.SourceEntity{}).Where("resource_id = ?", resourceID).Count(&count).Error
	return count, err
}

// translatedIDs selects the entity ids of a resource having a translation in the language.
func (g *GormStore) translatedIDs(ctx context.Context, resourceID, language string, countEmpty bool) *gorm.DB {
	sub := g.db.WithContext(ctx).Model(&model.Translation{}).
		Select("source_entity_id").
		Where("resource_id = ? AND language_code = ?", resourceID, language)
	if !countEmpty {
		sub = sub.Where("string <> ?", "")
	}

	return sub
}

func (g *GormStore) ListTranslatedEntities(ctx context.Context, resourceID, language string, countEmpty bool) ([]*model.SourceEntity, error) {
	var entities []*model.SourceEntity
	err := g.db.WithContext(ctx).
		Where("resource_id = ? AND id IN (?)", resourceID, g.translatedIDs(ctx, resourceID, language, countEmpty)).
		Order("id").
		Find(&entities).Error
	return entities, err
}

func (g *GormStore) ListUntranslatedEntities(ctx context.Context, resourceID, language string, countEmpty bool) ([]*model.SourceEntity, error) {
	var entities []*model.SourceEntity
	err := g.db.WithContext(ctx).
		Where("resource_id = ? AND id NOT IN (?)", resourceID, g.translatedIDs(ctx, resourceID, language, countEmpty)).
		Order("id").
		Find(&entities).Error
	return entities, err
}

func (g *GormStore) CountTranslatedEntities(ctx context.Context, resourceID, language string, countEmpty bool) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.SourceEntity{}).
		Where("resource_id = ? AND id IN (?)", resourceID, g.translatedIDs(ctx, resourceID, language, countEmpty)).
		Count(&count).Error
	return count, err
}

// GetOrCreateTranslation follows the same insert-or-read discipline as GetOrCreateSourceEntity.
// The translation belongs to the resource of its entity.
func (g *GormStore) GetOrCreateTranslation(ctx context.Context, entity *model.SourceEntity, language string, number int, initial string, userID *string) (*model.Translation, bool, error) {
	db := g.db.WithContext(ctx)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		var translations []*model.Translation
		err := db.Where("source_entity_id = ? AND language_code = ? AND resource_id = ? AND number = ?", entity.ID, language, entity.ResourceID, number).
			Limit(1).Find(&translations).Error
		if err != nil {
			return nil, false, err
		}
		if len(translations) == 1 {
			return translations[0], false, nil
		}

		translation := &model.Translation{
			SourceEntityID: entity.ID,
			LanguageCode:   language,
			ResourceID:     entity.ResourceID,
			Number:         number,
			String:         initial,
			UserID:         userID,
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(translation)
		if res.Error != nil {
			return nil, false, res.Error
		}
		if res.RowsAffected == 1 {
			return translation, true, nil
		}

		logrus.Debugf("translation of entity %d in %s created concurrently, retrying lookup", entity.ID, language)
	}

	return nil, false, ErrConflictRetry
}

func (g *GormStore) UpdateTranslationText(ctx context.Context, translation *model.Translation, str string, userID *string) (bool, error) {
	if translation.String == str {
		return false, nil
	}

	err := g.db.WithContext(ctx).Model(translation).Updates(map[string]any{
		"string":  str,
		"user_id": userID,
	}).Error
	if err != nil {
		return false, err
	}
	translation.String = str
	translation.UserID = userID

	return true, nil
}

func (g *GormStore) ListTranslations(ctx context.Context, resourceID, language string) ([]*model.Translation, error) {
	var translations []*model.Translation
	err := g.db.WithContext(ctx).Where("resource_id = ? AND language_code = ?", resourceID, language).Order("id").Find(&translations).Error
	return translations, err
}

func (g *GormStore) CountTranslations(ctx context.Context, resourceID, language string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Translation{}).Where("resource_id = ? AND language_code = ?", resourceID, language).Count(&count).Error
	return count, err
}

func (g *GormStore) LastTranslation(ctx context.Context, resourceID, language string) (*model.Translation, error) {
	query := g.db.WithContext(ctx).Where("resource_id = ?", resourceID)
	if language != "" {
		query = query.Where("language_code = ?", language)
	}

	var translations []*model.Translation
	err := query.Order("updated_at desc").Order("id desc").Limit(1).Find(&translations).Error
	if err != nil {
		return nil, err
	}
	if len(translations) == 0 {
		return nil, nil
	}

	return translations[0], nil
}

func (g *GormStore) ListTranslationLanguages(ctx context.Context, resourceID string) ([]string, error) {
	var languages []string
	err := g.db.WithContext(ctx).Model(&model.Translation{}).
		Where("resource_id = ?", resourceID).
		Distinct().
		Order("language_code").
		Pluck("language_code", &languages).Error
	return languages, err
}

func (g *GormStore) SearchTranslations(ctx context.Context, str, language string) ([]*model.Translation, error) {
	query := g.db.WithContext(ctx).
		Joins("JOIN source_entities ON source_entities.id = translations.source_entity_id").
		Where("source_entities.string = ?", str)
	if language != "" {
		query = query.Where("translations.language_code = ?", language)
	}

	var translations []*model.Translation
	err := query.Order("translations.id").Find(&translations).Error
	return translations, err
}

func (g *GormStore) GetOrCreateSuggestion(ctx context.Context, entityID uint, str, language string, userID *string) (*model.TranslationSuggestion, bool, error) {
	db := g.db.WithContext(ctx)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		var suggestions []*model.TranslationSuggestion
		err := db.Where("source_entity_id = ? AND string = ? AND language_code = ?", entityID, str, language).
			Limit(1).Find(&suggestions).Error
		if err != nil {
			return nil, false, err
		}
		if len(suggestions) == 1 {
			return suggestions[0], false, nil
		}

		suggestion := &model.TranslationSuggestion{
			SourceEntityID: entityID,
			String:         str,
			LanguageCode:   language,
			UserID:         userID,
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(suggestion)
		if res.Error != nil {
			return nil, false, res.Error
		}
		if res.RowsAffected == 1 {
			return suggestion, true, nil
		}
	}

	return nil, false, ErrConflictRetry
}

func (g *GormStore) GetSuggestion(ctx context.Context, id uint) (*model.TranslationSuggestion, error) {
	var suggestion model.TranslationSuggestion
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&suggestion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSuggestionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &suggestion, nil
}

func (g *GormStore) UpdateSuggestion(ctx context.Context, suggestion *model.TranslationSuggestion) error {
	return g.db.WithContext(ctx).Model(suggestion).Select("score", "live").Updates(suggestion).Error
}

func (g *GormStore) ListSuggestions(ctx context.Context, entityID uint, language string) ([]*model.TranslationSuggestion, error) {
	var suggestions []*model.TranslationSuggestion
	err := g.db.WithContext(ctx).
		Where("source_entity_id = ? AND language_code = ?", entityID, language).
		Order("score desc").Order("id").
		Find(&suggestions).Error
	return suggestions, err
}

func (g *GormStore) GetSourceEntity(ctx context.Context, id uint) (*model.SourceEntity, error) {
	var entity model.SourceEntity
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSourceEntityNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

func (g *GormStore) SaveResourceStat(ctx context.Context, stat *model.ResourceStat) error {
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "resource_id"}, {Name: "language_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"total", "translated", "untranslated", "percent", "last_committer", "updated_at"}),
	}).Create(stat).Error
}

func (g *GormStore) ListResourceStats(ctx context.Context, resourceID string) ([]*model.ResourceStat, error) {
	var stats []*model.ResourceStat
	err := g.db.WithContext(ctx).Where("resource_id = ?", resourceID).Order("language_code").Find(&stats).Error
	return stats, err
}

func (g *GormStore) DeleteResourceStats(ctx context.Context, resourceID string) error {
	return g.db.WithContext(ctx).Where("resource_id = ?", resourceID).Delete(&model.ResourceStat{}).Error
}

func (g *GormStore) CreateSourceTemplate(ctx context.Context, template *model.SourceTemplate) error {
	return g.db.WithContext(ctx).Create(template).Error
}

func (g *GormStore) GetLatestSourceTemplate(ctx context.Context, resourceID string) (*model.SourceTemplate, error) {
	var templates []*model.SourceTemplate
	err := g.db.WithContext(ctx).Where("resource_id = ?", resourceID).Order("id desc").Limit(1).Find(&templates).Error
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrTemplateNotFound
	}

	return templates[0], nil
}

func (g *GormStore) CreateStorageFile(ctx context.Context, file *model.StorageFile) error {
	return g.db.WithContext(ctx).Create(file).Error
}

func (g *GormStore) GetStorageFile(ctx context.Context, id string) (*model.StorageFile, error) {
	var file model.StorageFile
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStorageFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &file, nil
}

func (g *GormStore) UpdateStorageFile(ctx context.Context, file *model.StorageFile) error {
	return g.db.WithContext(ctx).Save(file).Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
