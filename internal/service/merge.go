package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emrgen/happix/internal/cache"
	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/parser"
	"github.com/emrgen/happix/internal/queue"
	"github.com/emrgen/happix/internal/store"
	"github.com/emrgen/happix/internal/stringset"
	"github.com/sirupsen/logrus"
)

// NewMergeService creates a new MergeService.
func NewMergeService(store store.Store, cache cache.StatsCache, queue queue.MergeQueue, parsers *parser.Registry, scratchDir string) *MergeService {
	return &MergeService{
		store:      store,
		cache:      cache,
		queue:      queue,
		parsers:    parsers,
		scratchDir: scratchDir,
		locks:      newKeyedMutex(),
	}
}

// MergeService reconciles parsed stringsets with the catalog of a resource.
type MergeService struct {
	store      store.Store
	cache      cache.StatsCache
	queue      queue.MergeQueue
	parsers    *parser.Registry
	scratchDir string
	// merges of one resource run one at a time
	locks *keyedMutex
}

// MergeStringset applies every entry of set to the resource in one transaction and
// returns how many translations were added and updated. Nothing is applied when an
// error is returned.
func (m *MergeService) MergeStringset(ctx context.Context, set *stringset.Stringset, resourceID, language string, user *string, overwrite bool) (int, int, error) {
	if set == nil {
		return 0, 0, fmt.Errorf("%w: no stringset", ErrValidation)
	}
	for i, entry := range set.Entries {
		if entry.SourceText == "" {
			return 0, 0, fmt.Errorf("%w: entry %d: %w", ErrValidation, i, ErrEmptySourceString)
		}
	}

	language, err := canonicalLanguage(language)
	if err != nil {
		return 0, 0, err
	}

	if _, err := m.store.GetResource(ctx, resourceID); err != nil {
		return 0, 0, err
	}

	added, updated := 0, 0
	func() {
		unlock := m.locks.Lock(resourceID)
		defer unlock()

		err = m.store.Transaction(ctx, func(tx store.Store) error {
			var txErr error
			added, updated, txErr = mergeEntries(ctx, tx, set, resourceID, language, user, overwrite)
			return txErr
		})
	}()

	if err != nil {
		logrus.Errorf("merge into resource %s (%s) rolled back: %v", resourceID, language, err)
		return 0, 0, fmt.Errorf("%w: %w", ErrTransactionFailure, err)
	}

	logrus.Infof("merged %d entries into resource %s (%s): %d added, %d updated", set.Len(), resourceID, language, added, updated)
	m.afterCommit(ctx, resourceID, language, user, added, updated)

	return added, updated, nil
}

func mergeEntries(ctx context.Context, tx store.Store, set *stringset.Stringset, resourceID, language string, user *string, overwrite bool) (int, int, error) {
	added, updated := 0, 0
	var singular *model.SourceEntity

	for _, entry := range set.Entries {
		entity, created, err := tx.GetOrCreateSourceEntity(ctx, resourceID, entry.SourceText, entry.Context, entry.Number)
		if err != nil {
			return 0, 0, err
		}

		if entry.Number == 0 {
			singular = entity
		}
		if created && describe(entity, entry, singular) {
			if err := tx.UpdateSourceEntity(ctx, entity); err != nil {
				return 0, 0, err
			}
		}

		translation, created, err := tx.GetOrCreateTranslation(ctx, entity, language, entry.Number, entry.Translation, user)
		if err != nil {
			return 0, 0, err
		}

		if created {
			added++
			continue
		}
		if !overwrite {
			continue
		}

		changed, err := tx.UpdateTranslationText(ctx, translation, entry.Translation, user)
		if err != nil {
			return 0, 0, err
		}
		if changed {
			updated++
		}
	}

	return added, updated, nil
}

// describe copies the entry metadata onto a new entity and reports whether anything was set.
func describe(entity *model.SourceEntity, entry *stringset.Entry, singular *model.SourceEntity) bool {
	changed := false
	if entry.Occurrences != "" {
		entity.Occurrences = entry.Occurrences
		changed = true
	}
	if entry.Flags != "" {
		entity.Flags = entry.Flags
		changed = true
	}
	if entry.DeveloperComment != "" {
		entity.DeveloperComment = entry.DeveloperComment
		changed = true
	}
	if entry.Number > 0 && singular != nil && singular.ID != entity.ID {
		entity.SingularID = &singular.ID
		changed = true
	}

	return changed
}

// afterCommit drops the cached stats of the resource and announces the merge. Failures are logged only,
// the merge itself is already durable.
func (m *MergeService) afterCommit(ctx context.Context, resourceID, language string, user *string, added, updated int) {
	if err := m.cache.InvalidateResource(ctx, resourceID); err != nil {
		logrus.Warnf("failed to invalidate stats of resource %s: %v", resourceID, err)
	}

	event := &queue.MergeEvent{
		ResourceID: resourceID,
		Language:   language,
		Added:      added,
		Updated:    updated,
		At:         time.Now().UTC(),
	}
	if user != nil {
		event.User = *user
	}
	if err := m.queue.PublishMerge(ctx, event); err != nil {
		logrus.Warnf("failed to publish merge of resource %s: %v", resourceID, err)
	}
}

// MergeFromFile parses an uploaded file and merges it into the resource, overwriting
// changed translations. Unreadable files are rejected with ErrValidation before any mutation.
func (m *MergeService) MergeFromFile(ctx context.Context, file *model.StorageFile, resourceID string) (int, int, error) {
	resource, err := m.store.GetResource(ctx, resourceID)
	if err != nil {
		return 0, 0, err
	}

	set, err := m.parse(file)
	if err != nil {
		return 0, 0, err
	}

	language := file.LanguageCode
	if language == "" {
		language = set.TargetLanguage
	}
	language, err = canonicalLanguage(language)
	if err != nil {
		return 0, 0, fmt.Errorf("file %s: %w", file.Name, err)
	}

	if sourceLanguage, err := canonicalLanguage(resource.SourceLanguage); err == nil && sourceLanguage == language {
		fillFromSource(set)
	}

	return m.MergeStringset(ctx, set, resourceID, language, file.UserID, true)
}

func (m *MergeService) parse(file *model.StorageFile) (*stringset.Stringset, error) {
	if err := validateFileName(file.Name); err != nil {
		return nil, err
	}

	p, ok := m.parsers.ForMimeType(file.MimeType)
	if !ok {
		p, ok = m.parsers.ForFilename(file.Name)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", ErrValidation, ErrUnknownFormat, file.Name)
	}

	set, err := parser.ParseFile(p, file.StoragePath(m.scratchDir))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: %s holds no strings", ErrValidation, file.Name)
	}

	return set, nil
}

// fillFromSource makes the source text the translation of untranslated template entries.
func fillFromSource(set *stringset.Stringset) {
	for _, entry := range set.Entries {
		if entry.Translation == "" {
			entry.Translation = entry.SourceText
		}
	}
}

// IsValidation reports whether err rejected an input without touching the catalog.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
