package service

import (
	"context"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/happix/internal/cache"
	"github.com/emrgen/happix/internal/model"
	"github.com/emrgen/happix/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// statsConcurrency bounds the languages recomputed at once.
const statsConcurrency = 4

// NewAggregateService creates a new AggregateService. countEmpty decides whether an
// empty translation marks its entity as translated.
func NewAggregateService(store store.Store, cache cache.StatsCache, countEmpty bool) *AggregateService {
	return &AggregateService{
		store:      store,
		cache:      cache,
		countEmpty: countEmpty,
	}
}

// AggregateService answers read side questions about a resource.
type AggregateService struct {
	store      store.Store
	cache      cache.StatsCache
	countEmpty bool
}

func (a *AggregateService) TranslatedEntities(ctx context.Context, resourceID, language string) ([]*model.SourceEntity, error) {
	language, err := canonicalLanguage(language)
	if err != nil {
		return nil, err
	}

	return a.store.ListTranslatedEntities(ctx, resourceID, language, a.countEmpty)
}

func (a *AggregateService) UntranslatedEntities(ctx context.Context, resourceID, language string) ([]*model.SourceEntity, error) {
	language, err := canonicalLanguage(language)
	if err != nil {
		return nil, err
	}

	return a.store.ListUntranslatedEntities(ctx, resourceID, language, a.countEmpty)
}

func (a *AggregateService) NumTranslated(ctx context.Context, resourceID, language string) (int, error) {
	language, err := canonicalLanguage(language)
	if err != nil {
		return 0, err
	}

	count, err := a.store.CountTranslatedEntities(ctx, resourceID, language, a.countEmpty)
	return int(count), err
}

func (a *AggregateService) NumUntranslated(ctx context.Context, resourceID, language string) (int, error) {
	total, err := a.TotalEntities(ctx, resourceID)
	if err != nil {
		return 0, err
	}

	translated, err := a.NumTranslated(ctx, resourceID, language)
	if err != nil {
		return 0, err
	}

	return total - translated, nil
}

// TotalEntities counts the source entities to be translated.
func (a *AggregateService) TotalEntities(ctx context.Context, resourceID string) (int, error) {
	return a.cached(ctx, cache.Key{ResourceID: resourceID, Metric: cache.MetricTotalEntities}, func() (int, error) {
		count, err := a.store.CountSourceEntities(ctx, resourceID)
		return int(count), err
	})
}

// TotalSourceStrings counts the translations in the source language of the resource.
func (a *AggregateService) TotalSourceStrings(ctx context.Context, resourceID string) (int, error) {
	resource, err := a.store.GetResource(ctx, resourceID)
	if err != nil {
		return 0, err
	}

	count, err := a.store.CountTranslations(ctx, resourceID, sourceLanguage(resource))
	return int(count), err
}

// WordCount sums the words of the source language translations.
func (a *AggregateService) WordCount(ctx context.Context, resourceID string) (int, error) {
	return a.cached(ctx, cache.Key{ResourceID: resourceID, Metric: cache.MetricWordCount}, func() (int, error) {
		resource, err := a.store.GetResource(ctx, resourceID)
		if err != nil {
			return 0, err
		}

		translations, err := a.store.ListTranslations(ctx, resourceID, sourceLanguage(resource))
		if err != nil {
			return 0, err
		}

		words := 0
		for _, translation := range translations {
			words += translation.WordCount()
		}

		return words, nil
	})
}

// TranslationPercent is floor(translated * 100 / total), 100 for a resource without entities.
func (a *AggregateService) TranslationPercent(ctx context.Context, resourceID, language string) (int, error) {
	language, err := canonicalLanguage(language)
	if err != nil {
		return 0, err
	}

	key := cache.Key{ResourceID: resourceID, Metric: cache.MetricTranslatedPercent, Language: language}
	return a.cached(ctx, key, func() (int, error) {
		total, err := a.TotalEntities(ctx, resourceID)
		if err != nil {
			return 0, err
		}

		translated, err := a.NumTranslated(ctx, resourceID, language)
		if err != nil {
			return 0, err
		}

		return percent(translated, total), nil
	})
}

func (a *AggregateService) UntranslatedPercent(ctx context.Context, resourceID, language string) (int, error) {
	translated, err := a.TranslationPercent(ctx, resourceID, language)
	if err != nil {
		return 0, err
	}

	return 100 - translated, nil
}

// LastTranslation returns the most recently updated translation, in any language when
// language is empty, or nil when there is none.
func (a *AggregateService) LastTranslation(ctx context.Context, resourceID, language string) (*model.Translation, error) {
	if language != "" {
		var err error
		if language, err = canonicalLanguage(language); err != nil {
			return nil, err
		}
	}

	return a.store.LastTranslation(ctx, resourceID, language)
}

// LastCommitter returns the user of the latest translation, nil when it was anonymous.
func (a *AggregateService) LastCommitter(ctx context.Context, resourceID string) (*string, error) {
	translation, err := a.store.LastTranslation(ctx, resourceID, "")
	if err != nil || translation == nil {
		return nil, err
	}

	return translation.UserID, nil
}

// AvailableLanguages returns the languages with at least one translation, sorted.
func (a *AggregateService) AvailableLanguages(ctx context.Context, resourceID string) ([]string, error) {
	return a.store.ListTranslationLanguages(ctx, resourceID)
}

// Stats computes the statistics snapshot of one language without saving it.
func (a *AggregateService) Stats(ctx context.Context, resourceID, language string) (*model.ResourceStat, error) {
	language, err := canonicalLanguage(language)
	if err != nil {
		return nil, err
	}

	total, err := a.store.CountSourceEntities(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	translated, err := a.store.CountTranslatedEntities(ctx, resourceID, language, a.countEmpty)
	if err != nil {
		return nil, err
	}

	last, err := a.store.LastTranslation(ctx, resourceID, language)
	if err != nil {
		return nil, err
	}

	stat := &model.ResourceStat{
		ResourceID:   resourceID,
		LanguageCode: language,
		Total:        int(total),
		Translated:   int(translated),
		Untranslated: int(total - translated),
		Percent:      percent(int(translated), int(total)),
		UpdatedAt:    time.Now().UTC(),
	}
	if last != nil {
		stat.LastCommitter = last.UserID
	}

	return stat, nil
}

// RecomputeStats saves a fresh snapshot for the source language and every translated language.
func (a *AggregateService) RecomputeStats(ctx context.Context, resourceID string) ([]*model.ResourceStat, error) {
	resource, err := a.store.GetResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	languages, err := a.store.ListTranslationLanguages(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	set := mapset.NewThreadUnsafeSet[string](languages...)
	set.Add(sourceLanguage(resource))
	ordered := mapset.Sorted(set)

	stats := make([]*model.ResourceStat, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)
	for i, language := range ordered {
		i, language := i, language
		g.Go(func() error {
			stat, err := a.Stats(gctx, resourceID, language)
			if err != nil {
				return err
			}

			if err := a.store.SaveResourceStat(gctx, stat); err != nil {
				return err
			}
			stats[i] = stat

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logrus.Debugf("recomputed stats of resource %s for %d languages", resourceID, len(stats))

	return stats, nil
}

// cached reads key from the stats cache, computing and storing it on a miss. The write
// is dropped when a merge invalidated the resource while the value was computed. Cache
// faults degrade to a direct computation.
func (a *AggregateService) cached(ctx context.Context, key cache.Key, compute func() (int, error)) (int, error) {
	generation, err := a.cache.Generation(ctx, key.ResourceID)
	if err != nil {
		logrus.Warnf("stats cache generation of %s failed: %v", key.ResourceID, err)
		return compute()
	}

	value, ok, err := a.cache.GetInt(ctx, key)
	if err != nil {
		logrus.Warnf("stats cache read of %s failed: %v", key.Metric, err)
	}
	if ok {
		return value, nil
	}

	value, err = compute()
	if err != nil {
		return 0, err
	}

	written, err := a.cache.SetIntAt(ctx, key, value, generation)
	if err != nil {
		logrus.Warnf("stats cache write of %s failed: %v", key.Metric, err)
	} else if !written {
		logrus.Debugf("%s of resource %s was not cached", key.Metric, key.ResourceID)
	}

	return value, nil
}

func percent(translated, total int) int {
	if total == 0 {
		return 100
	}

	return translated * 100 / total
}

func sourceLanguage(resource *model.Resource) string {
	if language, err := canonicalLanguage(resource.SourceLanguage); err == nil {
		return language
	}

	return resource.SourceLanguage
}
