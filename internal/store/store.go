package store

import (
	"context"

	"github.com/emrgen/happix/internal/model"
)

type Store interface {
	ResourceStore
	EntityStore
	TranslationStore
	SuggestionStore
	StatStore
	TemplateStore
	StorageFileStore
	// Transaction runs f inside one unit of work. It commits when f returns nil and
	// rolls back otherwise, exactly once.
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type ResourceStore interface {
	// CreateResource creates a new resource.
	CreateResource(ctx context.Context, resource *model.Resource) error
	// GetResource retrieves a resource by ID.
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	// GetResourceBySlug retrieves a resource by project and slug.
	GetResourceBySlug(ctx context.Context, projectID, slug string) (*model.Resource, error)
	// ListResources retrieves the resources of a project.
	ListResources(ctx context.Context, projectID string) ([]*model.Resource, error)
	// ResetResource deletes every source entity, translation, suggestion and stat of a resource.
	ResetResource(ctx context.Context, id string) error
}

type EntityStore interface {
	// GetOrCreateSourceEntity resolves the entity with the given merge key, creating it when absent.
	GetOrCreateSourceEntity(ctx context.Context, resourceID, str, context string, number int) (*model.SourceEntity, bool, error)
	// UpdateSourceEntity saves the descriptive fields of an entity, never its merge key.
	UpdateSourceEntity(ctx context.Context, entity *model.SourceEntity) error
	// ListSourceEntities retrieves all source entities of a resource.
	ListSourceEntities(ctx context.Context, resourceID string) ([]*model.SourceEntity, error)
	// CountSourceEntities counts the source entities of a resource.
	CountSourceEntities(ctx context.Context, resourceID string) (int64, error)
	// ListTranslatedEntities retrieves the entities having a translation in the language.
	ListTranslatedEntities(ctx context.Context, resourceID, language string, countEmpty bool) ([]*model.SourceEntity, error)
	// ListUntranslatedEntities retrieves the entities having no translation in the language.
	ListUntranslatedEntities(ctx context.Context, resourceID, language string, countEmpty bool) ([]*model.SourceEntity, error)
	// CountTranslatedEntities counts the entities having a translation in the language.
	CountTranslatedEntities(ctx context.Context, resourceID, language string, countEmpty bool) (int64, error)
}

type TranslationStore interface {
	// GetOrCreateTranslation resolves the translation of an entity, creating it with initial when absent.
	GetOrCreateTranslation(ctx context.Context, entity *model.SourceEntity, language string, number int, initial string, userID *string) (*model.Translation, bool, error)
	// UpdateTranslationText rewrites the text when it differs, records userID as its author
	// and reports whether it did.
	UpdateTranslationText(ctx context.Context, translation *model.Translation, str string, userID *string) (bool, error)
	// ListTranslations retrieves the translations of a resource in a language.
	ListTranslations(ctx context.Context, resourceID, language string) ([]*model.Translation, error)
	// CountTranslations counts the translations of a resource in a language.
	CountTranslations(ctx context.Context, resourceID, language string) (int64, error)
	// LastTranslation retrieves the most recently updated translation, in any language when language is empty.
	LastTranslation(ctx context.Context, resourceID, language string) (*model.Translation, error)
	// ListTranslationLanguages retrieves the distinct languages translated in a resource.
	ListTranslationLanguages(ctx context.Context, resourceID string) ([]string, error)
	// SearchTranslations retrieves translations whose source string equals str.
	SearchTranslations(ctx context.Context, str, language string) ([]*model.Translation, error)
}

type SuggestionStore interface {
	// GetOrCreateSuggestion resolves the suggestion keyed by (entity, text, language).
	GetOrCreateSuggestion(ctx context.Context, entityID uint, str, language string, userID *string) (*model.TranslationSuggestion, bool, error)
	// GetSuggestion retrieves a suggestion by ID.
	GetSuggestion(ctx context.Context, id uint) (*model.TranslationSuggestion, error)
	// UpdateSuggestion saves score and live flag of a suggestion.
	UpdateSuggestion(ctx context.Context, suggestion *model.TranslationSuggestion) error
	// ListSuggestions retrieves the suggestions of an entity in a language, best score first.
	ListSuggestions(ctx context.Context, entityID uint, language string) ([]*model.TranslationSuggestion, error)
	// GetSourceEntity retrieves a source entity by ID.
	GetSourceEntity(ctx context.Context, id uint) (*model.SourceEntity, error)
}

type StatStore interface {
	// SaveResourceStat inserts or replaces the stat of (resource, language).
	SaveResourceStat(ctx context.Context, stat *model.ResourceStat) error
	// ListResourceStats retrieves the stats of a resource.
	ListResourceStats(ctx context.Context, resourceID string) ([]*model.ResourceStat, error)
	// DeleteResourceStats deletes the stats of a resource.
	DeleteResourceStats(ctx context.Context, resourceID string) error
}

type TemplateStore interface {
	// CreateSourceTemplate records a regenerated template.
	CreateSourceTemplate(ctx context.Context, template *model.SourceTemplate) error
	// GetLatestSourceTemplate retrieves the newest template of a resource.
	GetLatestSourceTemplate(ctx context.Context, resourceID string) (*model.SourceTemplate, error)
}

type StorageFileStore interface {
	// CreateStorageFile creates a new storage file.
	CreateStorageFile(ctx context.Context, file *model.StorageFile) error
	// GetStorageFile retrieves a storage file by ID.
	GetStorageFile(ctx context.Context, id string) (*model.StorageFile, error)
	// UpdateStorageFile saves a storage file.
	UpdateStorageFile(ctx context.Context, file *model.StorageFile) error
}
