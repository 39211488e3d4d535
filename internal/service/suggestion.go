package service

import (
	"context"
	"fmt"

	"github.com/emrgen/happix/internal/cache"
	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/store"
	"github.com/sirupsen/logrus"
)

// NewSuggestionService creates a new SuggestionService.
func NewSuggestionService(store store.Store, cache cache.StatsCache) *SuggestionService {
	return &SuggestionService{
		store: store,
		cache: cache,
	}
}

// SuggestionService collects candidate translations and promotes the chosen one.
type SuggestionService struct {
	store store.Store
	cache cache.StatsCache
}

// Suggest records a candidate translation. Suggesting the same text twice returns the existing row.
func (s *SuggestionService) Suggest(ctx context.Context, entityID uint, str, language string, userID *string) (*model.TranslationSuggestion, error) {
	if str == "" {
		return nil, fmt.Errorf("%w: empty suggestion", ErrValidation)
	}

	language, err := canonicalLanguage(language)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetSourceEntity(ctx, entityID); err != nil {
		return nil, err
	}

	suggestion, _, err := s.store.GetOrCreateSuggestion(ctx, entityID, str, language, userID)
	return suggestion, err
}

// Vote moves the score of a suggestion by delta.
func (s *SuggestionService) Vote(ctx context.Context, id uint, delta float64) (*model.TranslationSuggestion, error) {
	suggestion, err := s.store.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}

	suggestion.Score += delta
	if err := s.store.UpdateSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}

	return suggestion, nil
}

// ListSuggestions returns the suggestions of an entity, best score first.
func (s *SuggestionService) ListSuggestions(ctx context.Context, entityID uint, language string) ([]*model.TranslationSuggestion, error) {
	language, err := canonicalLanguage(language)
	if err != nil {
		return nil, err
	}

	return s.store.ListSuggestions(ctx, entityID, language)
}

// Promote writes the suggestion text as the live translation of its entity and marks it live.
func (s *SuggestionService) Promote(ctx context.Context, id uint, userID *string) (*model.Translation, error) {
	var translation *model.Translation
	var resourceID string

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		suggestion, err := tx.GetSuggestion(ctx, id)
		if err != nil {
			return err
		}

		entity, err := tx.GetSourceEntity(ctx, suggestion.SourceEntityID)
		if err != nil {
			return err
		}
		resourceID = entity.ResourceID

		translation, _, err = tx.GetOrCreateTranslation(ctx, entity, suggestion.LanguageCode, entity.Number, suggestion.String, userID)
		if err != nil {
			return err
		}
		if _, err := tx.UpdateTranslationText(ctx, translation, suggestion.String, userID); err != nil {
			return err
		}

		suggestion.Live = true
		return tx.UpdateSuggestion(ctx, suggestion)
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, resourceID); err != nil {
		logrus.Warnf("failed to invalidate stats of resource %s: %v", resourceID, err)
	}

	return translation, nil
}

// Search returns the translations of every entity whose source text equals str,
// in any language when language is empty.
func (s *SuggestionService) Search(ctx context.Context, str, language string) ([]*model.Translation, error) {
	if language != "" {
		var err error
		if language, err = canonicalLanguage(language); err != nil {
			return nil, err
		}
	}

	return s.store.SearchTranslations(ctx, str, language)
}
